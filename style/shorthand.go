package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"
)

// SplitCompoundProperty splits up a shorthand property into its individual
// components. It returns a slice of key-value pairs representing the
// individual (fine grained) style properties, and an indicator wether key
// is a shorthand at all.
// Example:
//
//	SplitCompoundProperty("padding", "10px 20px")
//
// will return
//
//	"padding-top"    => "10px"
//	"padding-right"  => "20px"
//	"padding-bottom" => "10px"
//	"padding-left"   => "20px"
//
// For the logic behind this, refer to e.g.
// https://www.w3schools.com/css/css_padding.asp .
func SplitCompoundProperty(key string, value string) ([]KeyValue, bool) {
	fields := strings.Fields(value)
	switch key {
	case "margin":
		return feazeCompound4("margin", "", fourDirs, fields), true
	case "padding":
		return feazeCompound4("padding", "", fourDirs, fields), true
	case "border-color":
		return feazeCompound4("border", "color", fourDirs, fields), true
	case "border-width":
		return feazeCompound4("border", "width", fourDirs, fields), true
	case "border-style":
		return feazeCompound4("border", "style", fourDirs, fields), true
	case "border-radius":
		return feazeCompound4("border", "radius", fourCorners, fields), true
	case "border":
		return splitBorder(fields), true
	case "flex":
		return splitFlex(fields), true
	case "flex-flow":
		return splitFlexFlow(fields), true
	case "gap":
		return splitGap(fields), true
	case "background":
		return splitBackground(value), true
	case "inset":
		return feazeCompound4("", "", fourDirs, fields), true
	case "outline":
		return splitOutline(fields), true
	}
	return nil, false
}

// CSS logic to distribute individual values from compound shorthands is as
// follows: https://www.w3schools.com/css/css_border.asp
func feazeCompound4(pre string, suf string, dirs [4]string, fields []string) []KeyValue {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil
	}
	r := make([]KeyValue, 4)
	r[0] = KeyValue{p(pre, suf, dirs[0]), fields[0]}
	switch {
	case l == 1:
		r[1] = KeyValue{p(pre, suf, dirs[1]), fields[0]}
		r[2] = KeyValue{p(pre, suf, dirs[2]), fields[0]}
		r[3] = KeyValue{p(pre, suf, dirs[3]), fields[0]}
	case l == 2:
		r[1] = KeyValue{p(pre, suf, dirs[1]), fields[1]}
		r[2] = KeyValue{p(pre, suf, dirs[2]), fields[0]}
		r[3] = KeyValue{p(pre, suf, dirs[3]), fields[1]}
	case l == 3:
		r[1] = KeyValue{p(pre, suf, dirs[1]), fields[1]}
		r[2] = KeyValue{p(pre, suf, dirs[2]), fields[2]}
		r[3] = KeyValue{p(pre, suf, dirs[3]), fields[1]}
	default:
		r[1] = KeyValue{p(pre, suf, dirs[1]), fields[1]}
		r[2] = KeyValue{p(pre, suf, dirs[2]), fields[2]}
		r[3] = KeyValue{p(pre, suf, dirs[3]), fields[3]}
	}
	return r
}

var fourDirs = [4]string{"top", "right", "bottom", "left"}
var fourCorners = [4]string{"top-right", "bottom-right", "bottom-left", "top-left"}

func p(prefix string, suffix string, tag string) string {
	if suffix == "" {
		if prefix == "" {
			return tag
		}
		return prefix + "-" + tag
	}
	if prefix == "" {
		return tag + "-" + suffix
	}
	return prefix + "-" + tag + "-" + suffix
}

// splitBorder expands "border: 1px solid red" by classifying each field as
// width, style or color and distributing it to all four edges.
func splitBorder(fields []string) []KeyValue {
	var r []KeyValue
	for _, f := range fields {
		switch {
		case isBorderStyleKeyword(f):
			r = append(r, feazeCompound4("border", "style", fourDirs, []string{f})...)
		case looksLikeColor(f):
			r = append(r, feazeCompound4("border", "color", fourDirs, []string{f})...)
		default:
			r = append(r, feazeCompound4("border", "width", fourDirs, []string{f})...)
		}
	}
	return r
}

func isBorderStyleKeyword(s string) bool {
	for _, kw := range strings.Split(borderStyles, "|") {
		if s == kw {
			return true
		}
	}
	return false
}

func looksLikeColor(s string) bool {
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "rgb") {
		return true
	}
	_, ok := namedColors[strings.ToLower(s)]
	return ok
}

// splitFlex expands the CSS flex shorthand:
//
//	flex: none          => 0 0 auto
//	flex: <grow>        => <grow> 1 0
//	flex: <grow> <shrink> [<basis>]
func splitFlex(fields []string) []KeyValue {
	if len(fields) == 1 && fields[0] == "none" {
		return []KeyValue{
			{"flex-grow", "0"}, {"flex-shrink", "0"}, {"flex-basis", "auto"},
		}
	}
	r := make([]KeyValue, 0, 3)
	switch len(fields) {
	case 1:
		r = append(r, KeyValue{"flex-grow", fields[0]},
			KeyValue{"flex-shrink", "1"}, KeyValue{"flex-basis", "0"})
	case 2:
		r = append(r, KeyValue{"flex-grow", fields[0]},
			KeyValue{"flex-shrink", fields[1]}, KeyValue{"flex-basis", "0"})
	case 3:
		r = append(r, KeyValue{"flex-grow", fields[0]},
			KeyValue{"flex-shrink", fields[1]}, KeyValue{"flex-basis", fields[2]})
	}
	return r
}

func splitFlexFlow(fields []string) []KeyValue {
	var r []KeyValue
	for _, f := range fields {
		if strings.HasPrefix(f, "row") || strings.HasPrefix(f, "column") {
			r = append(r, KeyValue{"flex-direction", f})
		} else {
			r = append(r, KeyValue{"flex-wrap", f})
		}
	}
	return r
}

// splitGap expands "gap: <row> [<column>]"; a single value applies to both.
func splitGap(fields []string) []KeyValue {
	switch len(fields) {
	case 1:
		return []KeyValue{{"row-gap", fields[0]}, {"column-gap", fields[0]}}
	case 2:
		return []KeyValue{{"row-gap", fields[0]}, {"column-gap", fields[1]}}
	}
	return nil
}

// splitBackground handles the background shorthand. We support the color
// and image constituents only; positions/repeat modes have to be declared
// with their longhand properties.
func splitBackground(value string) []KeyValue {
	var r []KeyValue
	for _, f := range strings.Fields(value) {
		switch {
		case looksLikeColor(f):
			r = append(r, KeyValue{"background-color", f})
		case strings.HasPrefix(f, "url("):
			r = append(r, KeyValue{"background-image", f})
		}
	}
	return r
}

func splitOutline(fields []string) []KeyValue {
	var r []KeyValue
	for _, f := range fields {
		switch {
		case isBorderStyleKeyword(f):
			r = append(r, KeyValue{"outline-style", f})
		case looksLikeColor(f):
			r = append(r, KeyValue{"outline-color", f})
		default:
			r = append(r, KeyValue{"outline-width", f})
		}
	}
	return r
}
