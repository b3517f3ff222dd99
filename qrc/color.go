package qrc

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors covers the basic color names users put on a CLI.
var namedColors = map[string]color.RGBA{
	"black":   {0x00, 0x00, 0x00, 0xFF},
	"white":   {0xFF, 0xFF, 0xFF, 0xFF},
	"red":     {0xFF, 0x00, 0x00, 0xFF},
	"green":   {0x00, 0x80, 0x00, 0xFF},
	"blue":    {0x00, 0x00, 0xFF, 0xFF},
	"yellow":  {0xFF, 0xFF, 0x00, 0xFF},
	"cyan":    {0x00, 0xFF, 0xFF, 0xFF},
	"magenta": {0xFF, 0x00, 0xFF, 0xFF},
	"gray":    {0x80, 0x80, 0x80, 0xFF},
	"orange":  {0xFF, 0xA5, 0x00, 0xFF},
	"purple":  {0x80, 0x00, 0x80, 0xFF},
}

// ParseColor parses a basic color name (e.g. "red") or a hex code
// ("#RGB" or "#RRGGBB").
func ParseColor(s string) (color.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	if strings.HasPrefix(key, "#") {
		return parseHex(key)
	}
	return nil, fmt.Errorf("unknown color %q (use a basic name or #RRGGBB)", s)
}

func parseHex(s string) (color.Color, error) {
	hex := s[1:]
	switch len(hex) {
	case 3:
		// #RGB shorthand: each digit doubles.
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6:
	default:
		return nil, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}
