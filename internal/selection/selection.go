// Package selection builds selection masks and implements the floating
// patch lifecycle: lift, affine transform sampling and commit.
//
// A Selection is immutable once built. The empty selection is represented by
// a nil *Selection; every constructor returns nil instead of an all-zero
// mask, so callers can treat "no selection" and "nothing selected" alike.
package selection

import (
	"image"
)

// Selection is a per-pixel mask over a canvas together with the tight
// bounding box of its set cells.
type Selection struct {
	Width  int
	Height int
	Mask   []uint8
	// Bounds is the smallest rectangle containing every set cell. Max is
	// exclusive.
	Bounds image.Rectangle
}

// FromMask wraps a mask, computing its bounds. The mask is not copied.
func FromMask(w, h int, mask []uint8) *Selection {
	if len(mask) != w*h {
		return nil
	}
	b, ok := maskBounds(mask, w, h)
	if !ok {
		return nil
	}
	return &Selection{Width: w, Height: h, Mask: mask, Bounds: b}
}

// maskBounds returns the tight box of the non-zero cells.
func maskBounds(mask []uint8, w, h int) (image.Rectangle, bool) {
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := mask[y*w : (y+1)*w]
		for x, m := range row {
			if m == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// All selects every pixel.
func All(w, h int) *Selection {
	if w <= 0 || h <= 0 {
		return nil
	}
	mask := make([]uint8, w*h)
	for i := range mask {
		mask[i] = 1
	}
	return &Selection{Width: w, Height: h, Mask: mask, Bounds: image.Rect(0, 0, w, h)}
}

// Rect selects the rectangle spanned by two inclusive corners, clipped to
// the canvas.
func Rect(w, h, x0, y0, x1, y1 int) *Selection {
	r := image.Rect(x0, y0, x1, y1)
	r.Max = r.Max.Add(image.Pt(1, 1))
	r = r.Intersect(image.Rect(0, 0, w, h))
	if r.Empty() {
		return nil
	}
	mask := make([]uint8, w*h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mask[y*w+x] = 1
		}
	}
	return &Selection{Width: w, Height: h, Mask: mask, Bounds: r}
}

// Polygon selects the pixels whose centers fall inside the closed path pts
// under the even-odd rule. The path is closed implicitly.
func Polygon(w, h int, pts []image.Point) *Selection {
	if len(pts) < 3 {
		return nil
	}
	box := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
	}
	box = box.Intersect(image.Rect(0, 0, w, h))
	if box.Empty() {
		return nil
	}
	mask := make([]uint8, w*h)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if evenOdd(pts, float64(x)+0.5, float64(y)+0.5) {
				mask[y*w+x] = 1
			}
		}
	}
	return FromMask(w, h, mask)
}

// evenOdd reports whether (px, py) is inside the polygon by counting edge
// crossings of a ray cast towards +x.
func evenOdd(pts []image.Point, px, py float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		xi, yi := float64(pts[i].X), float64(pts[i].Y)
		xj, yj := float64(pts[j].X), float64(pts[j].Y)
		if (yi > py) != (yj > py) && px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			in = !in
		}
		j = i
	}
	return in
}

// MagicWand selects pixels whose comparable value equals the seed's. value
// returns the comparable value of the pixel at row-major index i, which lets
// the same routine serve RGBA and indexed buffers. Contiguous mode grows a
// 4-connected region from the seed; otherwise every equal pixel is selected.
func MagicWand(w, h, x, y int, value func(i int) uint32, contiguous bool) *Selection {
	if x < 0 || y < 0 || x >= w || y >= h {
		return nil
	}
	seed := value(y*w + x)
	mask := make([]uint8, w*h)
	if !contiguous {
		for i := range mask {
			if value(i) == seed {
				mask[i] = 1
			}
		}
		return FromMask(w, h, mask)
	}

	stack := []int{y*w + x}
	mask[y*w+x] = 1
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := i%w, i/w
		for _, n := range [4][2]int{{cx - 1, cy}, {cx + 1, cy}, {cx, cy - 1}, {cx, cy + 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if mask[j] != 0 || value(j) != seed {
				continue
			}
			mask[j] = 1
			stack = append(stack, j)
		}
	}
	return FromMask(w, h, mask)
}

// Invert returns the complement of s on a w×h canvas. Inverting no selection
// selects everything.
func Invert(s *Selection, w, h int) *Selection {
	if s == nil {
		return All(w, h)
	}
	mask := make([]uint8, len(s.Mask))
	for i, m := range s.Mask {
		if m == 0 {
			mask[i] = 1
		}
	}
	return FromMask(s.Width, s.Height, mask)
}

// Contains reports whether (x, y) is selected.
func (s *Selection) Contains(x, y int) bool {
	if s == nil || x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.Mask[y*s.Width+x] != 0
}

// Count returns the number of selected pixels.
func (s *Selection) Count() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, m := range s.Mask {
		if m != 0 {
			n++
		}
	}
	return n
}

// MaskOf returns the mask of s, or nil when there is no selection. A nil mask
// means "unrestricted" to the paint engine.
func MaskOf(s *Selection) []uint8 {
	if s == nil {
		return nil
	}
	return s.Mask
}
