package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.Color{
	"white":       color.White,
	"black":       color.Black,
	"transparent": color.Transparent,
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or a colour name
// (white, black, transparent). The leading "#" is optional. An empty string
// yields def.
func ParseColor(s string, def color.Color) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex := "#" + strings.TrimPrefix(s, "#")
	alpha := uint8(0xff)
	switch len(hex) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid colour %q", s)
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	if strings.ContainsAny(hex, " \t+-") {
		return nil, fmt.Errorf("invalid colour %q", s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
