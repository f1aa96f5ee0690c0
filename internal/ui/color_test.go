package ui

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#1E90FF", color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}, true},
		{"ff0000", color.NRGBA{R: 0xff, A: 0xff}, true},
		{"#abc", color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, true},
		{" #FFD700 ", color.NRGBA{R: 0xff, G: 0xd7, A: 0xff}, true},
		{"", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, false},
		{"#GGGGGG", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		got, ok := parseHexColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestHexColor_Fallback(t *testing.T) {
	assert.Equal(t, color.Black, hexColor("nope", color.Black))
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, hexColor("#f00", color.Black))
}
