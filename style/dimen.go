package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
)

// OnePx is the device-unit equivalent of one CSS pixel (1px = 3∕4pt).
const OnePx dimen.DU = dimen.PT * 3 / 4

const (
	dimenNone     uint32 = 0 // zero value: dimension not set
	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenPercent  uint32 = 0x0100
)

// DimenT is an option type for CSS dimensions. A dimension is either unset,
// an absolute length (stored in device units, created from pixel values),
// a percentage relative to the parent, or the keyword 'auto'.
type DimenT struct {
	d     dimen.DU
	pcnt  float32
	flags uint32
}

// Auto creates a CSS dimension of value 'auto'.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// JustDimen creates a CSS dimension with a fixed value of x device units.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Pixels creates a CSS dimension with a fixed value, given in CSS pixels.
func Pixels(px float32) DimenT {
	return DimenT{d: dimen.DU(px * float32(OnePx)), flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n float32) DimenT {
	return DimenT{pcnt: n, flags: dimenPercent}
}

// IsNone is true for an unset dimension (the zero value of DimenT).
func (d DimenT) IsNone() bool { return d.flags == dimenNone }

// IsAuto is true for the dimension keyword 'auto'.
func (d DimenT) IsAuto() bool { return d.flags&dimenAuto > 0 }

// IsAbsolute is true for a fixed (device unit) dimension.
func (d DimenT) IsAbsolute() bool { return d.flags&dimenAbsolute > 0 }

// IsPercent is true for a %-relative dimension.
func (d DimenT) IsPercent() bool { return d.flags&dimenPercent > 0 }

// DU returns the value of an absolute dimension in device units.
func (d DimenT) DU() dimen.DU { return d.d }

// Px returns the value of an absolute dimension in CSS pixels.
func (d DimenT) Px() float32 {
	return float32(d.d) / float32(OnePx)
}

// Percent returns the value of a %-relative dimension.
func (d DimenT) Percent() float32 { return d.pcnt }

func (d DimenT) String() string {
	switch {
	case d.IsAuto():
		return "auto"
	case d.IsPercent():
		return fmt.Sprintf("%g%%", d.pcnt)
	case d.IsAbsolute():
		return fmt.Sprintf("%gpx", d.Px())
	}
	return "none"
}

// ParseDimen parses a textual CSS dimension into a DimenT. Understood are
// pixel values ("12px" or bare "12"), percentages ("50%"), the keywords
// 'auto' and 'none', and the border-width keywords thin/medium/thick.
func ParseDimen(s string) (DimenT, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return DimenT{}, fmt.Errorf("cannot parse empty dimension")
	case "auto":
		return Auto(), nil
	case "none", "initial":
		return DimenT{}, nil
	case "thin":
		return Pixels(1), nil
	case "medium":
		return Pixels(3), nil
	case "thick":
		return Pixels(5), nil
	}
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 32)
		if err != nil {
			return DimenT{}, fmt.Errorf("cannot parse percentage %q", s)
		}
		return Percentage(float32(n)), nil
	}
	s = strings.TrimSuffix(s, "px")
	n, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return DimenT{}, fmt.Errorf("cannot parse dimension %q", s)
	}
	return Pixels(float32(n)), nil
}
