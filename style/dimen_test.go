package style

import (
	"testing"
)

func TestParseDimen(t *testing.T) {
	cases := []struct {
		input string
		check func(DimenT) bool
	}{
		{"10px", func(d DimenT) bool { return d.IsAbsolute() && d.Px() == 10 }},
		{"10", func(d DimenT) bool { return d.IsAbsolute() && d.Px() == 10 }},
		{"50%", func(d DimenT) bool { return d.IsPercent() && d.Percent() == 50 }},
		{"auto", func(d DimenT) bool { return d.IsAuto() }},
		{"none", func(d DimenT) bool { return d.IsNone() }},
		{"medium", func(d DimenT) bool { return d.IsAbsolute() && d.Px() == 3 }},
	}
	for _, c := range cases {
		d, err := ParseDimen(c.input)
		if err != nil {
			t.Errorf("cannot parse %q: %v", c.input, err)
			continue
		}
		if !c.check(d) {
			t.Errorf("dimension %q parsed to unexpected %s", c.input, d)
		}
	}
	if _, err := ParseDimen("fnord"); err == nil {
		t.Error("expected gibberish dimension to flag an error")
	}
}

func TestDimenString(t *testing.T) {
	if s := Pixels(12).String(); s != "12px" {
		t.Errorf("expected 12px, is %s", s)
	}
	if s := Percentage(50).String(); s != "50%" {
		t.Errorf("expected 50%%, is %s", s)
	}
	if s := Auto().String(); s != "auto" {
		t.Errorf("expected auto, is %s", s)
	}
}

func TestParseColorForms(t *testing.T) {
	cases := map[string][4]uint8{
		"#f00":             {0xff, 0x00, 0x00, 0xff},
		"#ff0000":          {0xff, 0x00, 0x00, 0xff},
		"#ff000080":        {0xff, 0x00, 0x00, 0x80},
		"rgb(255, 0, 0)":   {0xff, 0x00, 0x00, 0xff},
		"rgba(0,0,255,.5)": {0x00, 0x00, 0xff, 0x80},
		"red":              {0xff, 0x00, 0x00, 0xff},
		"transparent":      {0x00, 0x00, 0x00, 0x00},
	}
	for input, want := range cases {
		c, err := ParseColor(input)
		if err != nil {
			t.Errorf("cannot parse color %q: %v", input, err)
			continue
		}
		if c.R != want[0] || c.G != want[1] || c.B != want[2] || c.A != want[3] {
			t.Errorf("color %q parsed to unexpected %v", input, c)
		}
	}
	if _, err := ParseColor("#zz0000"); err == nil {
		t.Error("expected invalid hex color to flag an error")
	}
}
