package selection

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// eps absorbs floating point noise when snapping transformed corners to the
// pixel grid.
const eps = 1e-9

// Transform places a patch on the canvas: the patch center lands on
// (CenterX, CenterY), rotated by Angle radians and scaled per axis.
type Transform struct {
	CenterX float64
	CenterY float64
	Angle   float64
	ScaleX  float64
	ScaleY  float64
}

// NewTransform returns the identity placement of a patch lifted from bounds.
func NewTransform(bounds image.Rectangle) Transform {
	return Transform{
		CenterX: float64(bounds.Min.X) + float64(bounds.Dx())/2,
		CenterY: float64(bounds.Min.Y) + float64(bounds.Dy())/2,
		ScaleX:  1,
		ScaleY:  1,
	}
}

// Translate returns t moved by (dx, dy).
func (t Transform) Translate(dx, dy float64) Transform {
	t.CenterX += dx
	t.CenterY += dy
	return t
}

// forward maps patch-local coordinates to canvas coordinates.
func (t Transform) forward(w, h int) f64.Aff3 {
	sin, cos := math.Sincos(t.Angle)
	hw, hh := float64(w)/2, float64(h)/2
	return f64.Aff3{
		cos * t.ScaleX, -sin * t.ScaleY, t.CenterX - cos*t.ScaleX*hw + sin*t.ScaleY*hh,
		sin * t.ScaleX, cos * t.ScaleY, t.CenterY - sin*t.ScaleX*hw - cos*t.ScaleY*hh,
	}
}

// inverse maps canvas coordinates back into patch-local space: translate to
// the center, rotate by -Angle, divide by the scale, then offset by half the
// patch size. The scales must be non-zero.
func (t Transform) inverse(w, h int) f64.Aff3 {
	sin, cos := math.Sincos(t.Angle)
	hw, hh := float64(w)/2, float64(h)/2
	return f64.Aff3{
		cos / t.ScaleX, sin / t.ScaleX, -(cos*t.CenterX+sin*t.CenterY)/t.ScaleX + hw,
		-sin / t.ScaleY, cos / t.ScaleY, (sin*t.CenterX-cos*t.CenterY)/t.ScaleY + hh,
	}
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Patch is a detached block of pixels. RGBA is always present; Index is the
// parallel palette-index buffer of a patch lifted from an Indexed layer, with
// TransparentIndex marking cells that carry no paint.
type Patch struct {
	Width            int
	Height           int
	RGBA             []uint32
	Index            []uint8
	TransparentIndex uint8
}

// Floating is a lifted selection awaiting commit or cancel.
type Floating struct {
	// Layer is the owning layer as it was before the lift; Cancel restores it.
	Layer     canvas.Layer
	Bounds    image.Rectangle
	Patch     Patch
	Transform Transform
}

// Lift extracts the selected pixels of a layer buffer into a bounds-sized
// patch and clears them from the buffer. Unselected cells inside the bounds
// become transparent in the patch. cleared is pix itself when every selected
// cell already held transparent.
func Lift[T pixel.Value](pix []T, sel *Selection, transparent T) (patch, cleared []T, changed bool) {
	if sel == nil {
		return nil, pix, false
	}
	b := sel.Bounds
	w := sel.Width
	patch = make([]T, b.Dx()*b.Dy())
	cleared = pix
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pi := (y-b.Min.Y)*b.Dx() + (x - b.Min.X)
			i := y*w + x
			if sel.Mask[i] == 0 {
				patch[pi] = transparent
				continue
			}
			patch[pi] = pix[i]
			if pix[i] == transparent {
				continue
			}
			if !changed {
				cleared = make([]T, len(pix))
				copy(cleared, pix)
				changed = true
			}
			cleared[i] = transparent
		}
	}
	return patch, cleared, changed
}

// DirectPatch wraps an RGBA patch.
func DirectPatch(w, h int, rgba []uint32) Patch {
	return Patch{Width: w, Height: h, RGBA: rgba}
}

// IndexedPatch wraps an index patch, resolving its colors through pal.
func IndexedPatch(w, h int, idx []uint8, pal pixel.Palette) Patch {
	rgba := make([]uint32, len(idx))
	for i, c := range idx {
		rgba[i] = pal.Color(c)
	}
	return Patch{Width: w, Height: h, RGBA: rgba, Index: idx, TransparentIndex: pal.TransparentIndex}
}

// Sampled is a patch resampled into canvas space. Rect locates it on the
// canvas; cells that received no sample hold 0 in RGBA and the patch's
// transparent index in Index.
type Sampled struct {
	Rect             image.Rectangle
	RGBA             []uint32
	Index            []uint8
	TransparentIndex uint8
}

// Sample resamples p through t with nearest-neighbour lookup.
//
// The output extent is the integer box around the four transformed corners,
// intersected with clip. Each output pixel center is mapped back into patch
// space; samples that land outside the patch or carry zero alpha are
// omitted. A zero scale on either axis yields an empty result.
func (t Transform) Sample(p Patch, clip image.Rectangle) Sampled {
	out := Sampled{TransparentIndex: p.TransparentIndex}
	if t.ScaleX == 0 || t.ScaleY == 0 || p.Width == 0 || p.Height == 0 {
		return out
	}

	fwd := t.forward(p.Width, p.Height)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{
		{0, 0}, {float64(p.Width), 0},
		{0, float64(p.Height)}, {float64(p.Width), float64(p.Height)},
	} {
		x, y := apply(fwd, c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	box := image.Rect(
		int(math.Floor(minX+eps)), int(math.Floor(minY+eps)),
		int(math.Ceil(maxX-eps)), int(math.Ceil(maxY-eps)),
	).Intersect(clip)
	if box.Empty() {
		return out
	}

	out.Rect = box
	w, h := box.Dx(), box.Dy()
	out.RGBA = make([]uint32, w*h)
	if p.Index != nil {
		out.Index = make([]uint8, w*h)
		for i := range out.Index {
			out.Index[i] = p.TransparentIndex
		}
	}

	inv := t.inverse(p.Width, p.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u, v := apply(inv, float64(box.Min.X+x)+0.5, float64(box.Min.Y+y)+0.5)
			sx, sy := int(math.Floor(u)), int(math.Floor(v))
			if sx < 0 || sy < 0 || sx >= p.Width || sy >= p.Height {
				continue
			}
			si := sy*p.Width + sx
			c := p.RGBA[si]
			if pixel.Alpha(c) == 0 {
				continue
			}
			out.RGBA[y*w+x] = c
			if out.Index != nil {
				out.Index[y*w+x] = p.Index[si]
			}
		}
	}
	return out
}

// CommitDirect stamps s onto an RGBA layer buffer of width w. Zero-alpha
// samples leave the layer untouched.
func CommitDirect(pix []uint32, w int, s Sampled) ([]uint32, bool) {
	var out []uint32
	sw := s.Rect.Dx()
	h := len(pix) / max(w, 1)
	for y := s.Rect.Min.Y; y < s.Rect.Max.Y; y++ {
		for x := s.Rect.Min.X; x < s.Rect.Max.X; x++ {
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			c := s.RGBA[(y-s.Rect.Min.Y)*sw+(x-s.Rect.Min.X)]
			i := y*w + x
			if pixel.Alpha(c) == 0 || pix[i] == c {
				continue
			}
			if out == nil {
				out = make([]uint32, len(pix))
				copy(out, pix)
			}
			out[i] = c
		}
	}
	if out == nil {
		return pix, false
	}
	return out, true
}

// CommitIndexed stamps s onto an index layer buffer of width w. With an exact
// index buffer the indices are copied verbatim, skipping the transparent
// index; otherwise each RGBA sample is quantized to the nearest slot of pal.
func CommitIndexed(pix []uint8, w int, s Sampled, pal pixel.Palette) ([]uint8, bool) {
	var out []uint8
	sw := s.Rect.Dx()
	h := len(pix) / max(w, 1)
	for y := s.Rect.Min.Y; y < s.Rect.Max.Y; y++ {
		for x := s.Rect.Min.X; x < s.Rect.Max.X; x++ {
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			si := (y-s.Rect.Min.Y)*sw + (x - s.Rect.Min.X)
			var v uint8
			if s.Index != nil {
				v = s.Index[si]
				if v == s.TransparentIndex {
					continue
				}
			} else {
				c := s.RGBA[si]
				if pixel.Alpha(c) == 0 {
					continue
				}
				v = pixel.NearestIndex(pal, c)
			}
			i := y*w + x
			if pix[i] == v {
				continue
			}
			if out == nil {
				out = make([]uint8, len(pix))
				copy(out, pix)
			}
			out[i] = v
		}
	}
	if out == nil {
		return pix, false
	}
	return out, true
}
