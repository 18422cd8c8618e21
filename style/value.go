package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"image/color"
	"strconv"
)

// ValueKind enumerates the kinds of values a style property may carry.
// Every property of the fixed property table is declared with exactly one
// kind; a property bag will never associate a property with a value of a
// different kind.
type ValueKind uint8

//go:generate stringer -type=ValueKind
const (
	UnsetKind     ValueKind = iota // zero value; no value present
	DimensionKind                  // a length: pixels, percent or auto
	ColorKind                      // an RGBA color
	EnumKind                       // one of a fixed keyword set
	NumberKind                     // a bare number (flex-grow, opacity, …)
	TextKind                       // free text (font-family, content, …)
)

// Value is a tagged union over the value kinds. Values are immutable once
// constructed.
type Value struct {
	kind ValueKind
	dim  DimenT
	col  color.RGBA
	num  float32
	txt  string // keyword for EnumKind, raw text for TextKind
}

// DimensionValue wraps a dimension into a Value.
func DimensionValue(d DimenT) Value {
	return Value{kind: DimensionKind, dim: d}
}

// ColorValue wraps a color into a Value.
func ColorValue(c color.RGBA) Value {
	return Value{kind: ColorKind, col: c}
}

// EnumValue wraps a keyword of a fixed per-property set into a Value.
func EnumValue(keyword string) Value {
	return Value{kind: EnumKind, txt: keyword}
}

// NumberValue wraps a bare number into a Value.
func NumberValue(n float32) Value {
	return Value{kind: NumberKind, num: n}
}

// TextValue wraps free text into a Value.
func TextValue(s string) Value {
	return Value{kind: TextKind, txt: s}
}

// Kind returns the kind tag of a value.
func (v Value) Kind() ValueKind { return v.kind }

// IsUnset is true for the zero value.
func (v Value) IsUnset() bool { return v.kind == UnsetKind }

// Dimension returns the dimension variant of a value, with an indicator
// wether the value is of dimension kind.
func (v Value) Dimension() (DimenT, bool) {
	return v.dim, v.kind == DimensionKind
}

// Color returns the color variant of a value, with an indicator wether the
// value is of color kind.
func (v Value) Color() (color.RGBA, bool) {
	return v.col, v.kind == ColorKind
}

// Keyword returns the keyword of an enum value, or "" for other kinds.
func (v Value) Keyword() string {
	if v.kind != EnumKind {
		return ""
	}
	return v.txt
}

// Number returns the number variant of a value, with an indicator wether
// the value is of number kind.
func (v Value) Number() (float32, bool) {
	return v.num, v.kind == NumberKind
}

// Text returns the text variant of a value, or "" for other kinds.
func (v Value) Text() string {
	if v.kind != TextKind {
		return ""
	}
	return v.txt
}

func (v Value) String() string {
	switch v.kind {
	case DimensionKind:
		return v.dim.String()
	case ColorKind:
		return FormatColor(v.col)
	case EnumKind, TextKind:
		return v.txt
	case NumberKind:
		return strconv.FormatFloat(float64(v.num), 'g', -1, 32)
	}
	return "<unset>"
}

// Equal compares two values for (bit-)equality.
func (v Value) Equal(other Value) bool {
	return v == other
}

var _ fmt.Stringer = Value{}
