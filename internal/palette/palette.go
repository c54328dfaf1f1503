// Package palette generates palettes from images and converts pixel buffers
// between the RGBA and indexed representations.
package palette

import (
	"sort"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/composite"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// Generate builds a palette from the most frequent colors of an RGBA
// buffer. Fully transparent pixels are not counted. At most 255 colors are
// kept, most frequent first with ties broken by first occurrence, and the
// transparent slot is inserted at transparentSlot (clamped to the palette).
func Generate(pix []uint32, transparentSlot int) pixel.Palette {
	counts := make(map[uint32]int)
	var order []uint32
	for _, c := range pix {
		if pixel.Alpha(c) == 0 {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > pixel.MaxPaletteSize-1 {
		order = order[:pixel.MaxPaletteSize-1]
	}

	slot := min(max(transparentSlot, 0), len(order))
	colors := make([]uint32, 0, len(order)+1)
	colors = append(colors, order[:slot]...)
	colors = append(colors, pixel.Transparent)
	colors = append(colors, order[slot:]...)
	return pixel.NewPalette(colors, slot)
}

// ToIndexed quantizes an RGBA buffer to pal. Zero-alpha pixels map to the
// transparent index.
func ToIndexed(pix []uint32, pal pixel.Palette) []uint8 {
	out := make([]uint8, len(pix))
	cache := make(map[uint32]uint8)
	for i, c := range pix {
		v, ok := cache[c]
		if !ok {
			v = pixel.NearestIndex(pal, c)
			cache[c] = v
		}
		out[i] = v
	}
	return out
}

// ToDirect resolves an index buffer through pal. The transparent index and
// out-of-range indices become fully transparent.
func ToDirect(idx []uint8, pal pixel.Palette) []uint32 {
	out := make([]uint32, len(idx))
	for i, v := range idx {
		out[i] = pal.Color(v)
	}
	return out
}

// Remap re-expresses an index buffer drawn against from in terms of to,
// picking the nearest color for every slot in use.
func Remap(idx []uint8, from, to pixel.Palette) ([]uint8, bool) {
	var lut [pixel.MaxPaletteSize]uint8
	for i := 0; i < pixel.MaxPaletteSize; i++ {
		lut[i] = pixel.NearestIndex(to, from.Color(uint8(i)))
	}
	var out []uint8
	for i, v := range idx {
		if lut[v] == v {
			continue
		}
		if out == nil {
			out = make([]uint8, len(idx))
			copy(out, idx)
		}
		out[i] = lut[v]
	}
	if out == nil {
		return idx, false
	}
	return out, true
}

// Convert returns doc switched to mode. Converting to Indexed generates a
// palette from the full composite and quantizes every layer against it;
// converting to DirectColor resolves every layer through the current palette,
// which is kept. Converting to the current mode is a no-op.
func Convert(doc canvas.Document, mode pixel.ColorMode, transparentSlot int) (canvas.Document, bool) {
	if doc.Mode == mode {
		return doc, false
	}
	out := doc.Clone()
	out.Mode = mode
	switch mode {
	case pixel.IndexedColor:
		out.Palette = Generate(composite.Document(doc), transparentSlot)
		for i, l := range out.Layers {
			out.Layers[i].Pixels = pixel.Indexed(ToIndexed(l.Pixels.(pixel.Direct), out.Palette))
		}
	default:
		for i, l := range out.Layers {
			out.Layers[i].Pixels = pixel.Direct(ToDirect(l.Pixels.(pixel.Indexed), doc.Palette))
		}
	}
	return out, true
}
