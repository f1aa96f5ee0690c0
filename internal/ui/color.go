package ui

import (
	"image/color"
	"strconv"
	"strings"
)

// parseHexColor reads "#RRGGBB" or "#RGB" (the leading '#' is optional).
func parseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func hexColor(s string, fallback color.Color) color.Color {
	if c, ok := parseHexColor(s); ok {
		return c
	}
	return fallback
}
