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
	"strings"
)

// namedColors holds the CSS basic color keywords plus a handful of
// extended names we encounter in the wild.
var namedColors = map[string]color.RGBA{
	"black":       {0x00, 0x00, 0x00, 0xff},
	"silver":      {0xc0, 0xc0, 0xc0, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"maroon":      {0x80, 0x00, 0x00, 0xff},
	"red":         {0xff, 0x00, 0x00, 0xff},
	"purple":      {0x80, 0x00, 0x80, 0xff},
	"fuchsia":     {0xff, 0x00, 0xff, 0xff},
	"magenta":     {0xff, 0x00, 0xff, 0xff},
	"green":       {0x00, 0x80, 0x00, 0xff},
	"lime":        {0x00, 0xff, 0x00, 0xff},
	"olive":       {0x80, 0x80, 0x00, 0xff},
	"yellow":      {0xff, 0xff, 0x00, 0xff},
	"navy":        {0x00, 0x00, 0x80, 0xff},
	"blue":        {0x00, 0x00, 0xff, 0xff},
	"teal":        {0x00, 0x80, 0x80, 0xff},
	"aqua":        {0x00, 0xff, 0xff, 0xff},
	"cyan":        {0x00, 0xff, 0xff, 0xff},
	"orange":      {0xff, 0xa5, 0x00, 0xff},
	"brown":       {0xa5, 0x2a, 0x2a, 0xff},
	"pink":        {0xff, 0xc0, 0xcb, 0xff},
	"powderblue":  {0xb0, 0xe0, 0xe6, 0xff},
	"transparent": {0x00, 0x00, 0x00, 0x00},
}

// ParseColor parses a textual CSS color value. Understood are the forms
// #rgb, #rrggbb and #rrggbbaa, functional rgb(…)/rgba(…) notation, and
// named color keywords.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("cannot parse empty color")
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}
	return color.RGBA{}, fmt.Errorf("cannot parse color %q", s)
}

func parseHexColor(hex string) (color.RGBA, error) {
	var digits []string
	switch len(hex) {
	case 3:
		digits = []string{hex[0:1] + hex[0:1], hex[1:2] + hex[1:2], hex[2:3] + hex[2:3], "ff"}
	case 6:
		digits = []string{hex[0:2], hex[2:4], hex[4:6], "ff"}
	case 8:
		digits = []string{hex[0:2], hex[2:4], hex[4:6], hex[6:8]}
	default:
		return color.RGBA{}, fmt.Errorf("cannot parse hex color #%s", hex)
	}
	var b [4]uint8
	for i, d := range digits {
		n, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("cannot parse hex color #%s", hex)
		}
		b[i] = uint8(n)
	}
	return color.RGBA{b[0], b[1], b[2], b[3]}, nil
}

func parseRGBFunc(s string) (color.RGBA, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("cannot parse color %q", s)
	}
	args := strings.Split(s[open+1:len(s)-1], ",")
	if len(args) < 3 || len(args) > 4 {
		return color.RGBA{}, fmt.Errorf("expected 3 or 4 arguments for %q", s)
	}
	var b [4]uint8
	b[3] = 0xff
	for i, a := range args {
		a = strings.TrimSpace(a)
		if i == 3 { // alpha channel is a fraction 0…1
			f, err := strconv.ParseFloat(a, 32)
			if err != nil || f < 0 || f > 1 {
				return color.RGBA{}, fmt.Errorf("cannot parse alpha value %q", a)
			}
			b[3] = uint8(f*255 + 0.5)
			continue
		}
		n, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("cannot parse color channel %q", a)
		}
		b[i] = uint8(n)
	}
	return color.RGBA{b[0], b[1], b[2], b[3]}, nil
}

// FormatColor returns the canonical #rrggbb(aa) notation for a color.
func FormatColor(c color.RGBA) string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
