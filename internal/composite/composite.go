// Package composite stacks visible layers into a single RGBA buffer.
//
// # Arithmetic
//
// Blending uses 8-bit integer arithmetic with floor division at every step so
// that results are reproducible bit for bit:
//
//	aOut = aSrc + floor(aDst*(255-aSrc)/255)
//	cOut = floor((cSrc*aSrc + floor(cDst*aDst*(255-aSrc)/255)) / 255)
//
// A fully transparent source returns the destination unchanged.
//
// # Parallelism
//
// Every output pixel depends only on the same pixel of each layer, so Image
// fills rows concurrently. The caller must not mutate layer buffers while
// Image runs; the editor never does.
package composite

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// Over composites src over dst (non-premultiplied alpha-over).
func Over(src, dst uint32) uint32 {
	sr, sg, sb, sa := pixel.Unpack(src)
	if sa == 0 {
		return dst
	}
	dr, dg, db, da := pixel.Unpack(dst)
	as, ad := uint32(sa), uint32(da)
	inv := 255 - as
	a := as + ad*inv/255
	return pixel.Pack(
		channel(uint32(sr), uint32(dr), as, ad, inv),
		channel(uint32(sg), uint32(dg), as, ad, inv),
		channel(uint32(sb), uint32(db), as, ad, inv),
		uint8(a),
	)
}

func channel(cs, cd, as, ad, inv uint32) uint8 {
	return uint8((cs*as + cd*ad*inv/255) / 255)
}

// sample returns the RGBA contribution of layer l at pixel i and whether the
// layer contributes at all.
func sample(l canvas.Layer, pal pixel.Palette, i int) (uint32, bool) {
	switch px := l.Pixels.(type) {
	case pixel.Direct:
		c := px[i]
		return c, pixel.Alpha(c) != 0
	case pixel.Indexed:
		idx := px[i]
		if idx == pal.TransparentIndex || int(idx) >= pal.Len() {
			return 0, false
		}
		c := pal.Colors[idx]
		return c, pixel.Alpha(c) != 0
	}
	return 0, false
}

// Pixel composites pixel index i of the visible layers, bottom to top.
//
// The fold starts at the topmost visible fully opaque sample: Over with an
// opaque source discards the destination exactly, so everything beneath it
// cannot affect the result.
func Pixel(layers []canvas.Layer, pal pixel.Palette, i int) uint32 {
	start := 0
	for j := len(layers) - 1; j >= 0; j-- {
		if !layers[j].Visible {
			continue
		}
		if c, ok := sample(layers[j], pal, i); ok && pixel.Alpha(c) == 255 {
			start = j
			break
		}
	}
	var acc uint32
	for j := start; j < len(layers); j++ {
		if !layers[j].Visible {
			continue
		}
		if c, ok := sample(layers[j], pal, i); ok {
			acc = Over(c, acc)
		}
	}
	return acc
}

// Image composites every pixel of a w×h document into a new buffer.
func Image(layers []canvas.Layer, pal pixel.Palette, w, h int) []uint32 {
	out := make([]uint32, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				out[row+x] = Pixel(layers, pal, row+x)
			}
		}
	})
	return out
}

// Document composites doc with its own palette.
func Document(doc canvas.Document) []uint32 {
	return Image(doc.Layers, doc.Palette, doc.Width, doc.Height)
}
