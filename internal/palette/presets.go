package palette

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

var presetHex = map[string][]string{
	"pico-8": {
		"#000000", "#1D2B53", "#7E2553", "#008751", "#AB5236", "#5F574F", "#C2C3C7", "#FFF1E8",
		"#FF004D", "#FFA300", "#FFEC27", "#00E436", "#29ADFF", "#83769C", "#FF77A8", "#FFCCAA",
	},
	"gameboy": {"#0F380F", "#306230", "#8BAC0F", "#9BBC0F"},
	"cga": {
		"#000000", "#0000AA", "#00AA00", "#00AAAA", "#AA0000", "#AA00AA", "#AA5500", "#AAAAAA",
		"#555555", "#5555FF", "#55FF55", "#55FFFF", "#FF5555", "#FF55FF", "#FFFF55", "#FFFFFF",
	},
}

// generated presets are computed in HSV space.
var presetGen = map[string]func() []colorful.Color{
	"grayscale-16": func() []colorful.Color {
		out := make([]colorful.Color, 16)
		for i := range out {
			out[i] = colorful.Hsv(0, 0, float64(i)/15)
		}
		return out
	},
	"hue-32": func() []colorful.Color {
		out := make([]colorful.Color, 32)
		for i := range out {
			out[i] = colorful.Hsv(float64(i)*360/32, 0.8, 0.9)
		}
		return out
	},
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presetHex)+len(presetGen))
	for n := range presetHex {
		names = append(names, n)
	}
	for n := range presetGen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named palette with a transparent slot inserted at
// transparentSlot.
func Preset(name string, transparentSlot int) (pixel.Palette, error) {
	var cols []colorful.Color
	if hexes, ok := presetHex[name]; ok {
		for _, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				return pixel.Palette{}, fmt.Errorf("preset %s: %w", name, err)
			}
			cols = append(cols, c)
		}
	} else if gen, ok := presetGen[name]; ok {
		cols = gen()
	} else {
		return pixel.Palette{}, fmt.Errorf("unknown palette preset: %s", name)
	}

	slot := min(max(transparentSlot, 0), len(cols))
	colors := make([]uint32, 0, len(cols)+1)
	for i, c := range cols {
		if i == slot {
			colors = append(colors, pixel.Transparent)
		}
		colors = append(colors, pack(c, 0xFF))
	}
	if slot == len(cols) {
		colors = append(colors, pixel.Transparent)
	}
	return pixel.NewPalette(colors, slot), nil
}

func pack(c colorful.Color, a uint8) uint32 {
	r, g, b := c.Clamped().RGB255()
	return pixel.Pack(r, g, b, a)
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" (the leading # is optional)
// into a packed color. Six-digit colors are opaque.
func ParseColor(s string) (uint32, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty color string")
	}
	s = strings.TrimPrefix(s, "#")

	var alpha uint8 = 0xFF
	switch len(s) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:6]
	default:
		return 0, fmt.Errorf("invalid hex color length: %s", s)
	}
	c, err := colorful.Hex("#" + strings.ToLower(s))
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return pack(c, alpha), nil
}
