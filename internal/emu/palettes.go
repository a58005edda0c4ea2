package emu

import (
	"image/color"
	"sort"
	"strings"
)

// Palette colours the rendered LCD panel.
type Palette struct {
	Backlight color.RGBA // glass around the cells
	Cell      color.RGBA // unlit dots
	Ink       color.RGBA // lit dots
	Off       color.RGBA // everything when the display is switched off
}

var palettes = map[string]Palette{
	"green": {
		Backlight: color.RGBA{0x7A, 0x9A, 0x12, 0xFF},
		Cell:      color.RGBA{0x8C, 0xAD, 0x1C, 0xFF},
		Ink:       color.RGBA{0x1E, 0x2B, 0x05, 0xFF},
		Off:       color.RGBA{0x4A, 0x55, 0x30, 0xFF},
	},
	"blue": {
		Backlight: color.RGBA{0x1C, 0x3F, 0xD8, 0xFF},
		Cell:      color.RGBA{0x26, 0x4C, 0xE8, 0xFF},
		Ink:       color.RGBA{0xE8, 0xF0, 0xFF, 0xFF},
		Off:       color.RGBA{0x14, 0x1C, 0x40, 0xFF},
	},
	"amber": {
		Backlight: color.RGBA{0x20, 0x12, 0x02, 0xFF},
		Cell:      color.RGBA{0x2C, 0x1A, 0x04, 0xFF},
		Ink:       color.RGBA{0xFF, 0xB0, 0x00, 0xFF},
		Off:       color.RGBA{0x10, 0x0A, 0x02, 0xFF},
	},
	"white": {
		Backlight: color.RGBA{0xD8, 0xD8, 0xD0, 0xFF},
		Cell:      color.RGBA{0xE4, 0xE4, 0xDC, 0xFF},
		Ink:       color.RGBA{0x20, 0x20, 0x28, 0xFF},
		Off:       color.RGBA{0x70, 0x70, 0x6C, 0xFF},
	},
}

type containsRule struct {
	substr string
	name   string
}

// paletteAliases maps looser names onto a palette.
var paletteAliases = []containsRule{
	{"yellow", "green"},
	{"lime", "green"},
	{"orange", "amber"},
	{"grey", "white"},
	{"gray", "white"},
	{"neg", "blue"},
}

// LookupPalette resolves a palette by name, then by alias, falling back to
// green.
func LookupPalette(name string) (Palette, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if p, ok := palettes[n]; ok {
		return p, true
	}
	for _, r := range paletteAliases {
		if strings.Contains(n, r.substr) {
			return palettes[r.name], true
		}
	}
	return palettes["green"], false
}

// PaletteNames lists the built-in palettes.
func PaletteNames() []string {
	out := make([]string, 0, len(palettes))
	for n := range palettes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
