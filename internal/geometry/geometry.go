// Package geometry transforms whole pixel buffers: resize with top-left
// anchoring, horizontal and vertical mirroring, and integer translation.
//
// These operations ignore selections and paint semantics; they move values
// around and fill vacated cells with the caller's transparent value. Like the
// rasterizers they return the input buffer with changed=false when the
// operation is an identity.
package geometry

import "github.com/ironsheep/pixel-tools-mcp/internal/pixel"

// Resize copies the overlapping top-left region of a w×h buffer into a new
// newW×newH buffer filled with fill. Non-positive target sizes are rejected.
func Resize[T pixel.Value](pix []T, w, h, newW, newH int, fill T) ([]T, bool) {
	if newW <= 0 || newH <= 0 || (newW == w && newH == h) {
		return pix, false
	}
	out := make([]T, newW*newH)
	if fill != 0 {
		for i := range out {
			out[i] = fill
		}
	}
	cw, ch := min(w, newW), min(h, newH)
	for y := 0; y < ch; y++ {
		copy(out[y*newW:y*newW+cw], pix[y*w:y*w+cw])
	}
	return out, true
}

// FlipHorizontal mirrors each row: x -> w-1-x.
func FlipHorizontal[T pixel.Value](pix []T, w, h int) ([]T, bool) {
	if w < 2 {
		return pix, false
	}
	out := make([]T, len(pix))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			out[row+w-1-x] = pix[row+x]
		}
	}
	return out, true
}

// FlipVertical mirrors each column: y -> h-1-y.
func FlipVertical[T pixel.Value](pix []T, w, h int) ([]T, bool) {
	if h < 2 {
		return pix, false
	}
	out := make([]T, len(pix))
	for y := 0; y < h; y++ {
		copy(out[(h-1-y)*w:(h-y)*w], pix[y*w:(y+1)*w])
	}
	return out, true
}

// Translate shifts every pixel by (dx, dy). Pixels shifted off the canvas are
// lost; vacated cells take fill.
func Translate[T pixel.Value](pix []T, w, h, dx, dy int, fill T) ([]T, bool) {
	if dx == 0 && dy == 0 {
		return pix, false
	}
	out := make([]T, len(pix))
	if fill != 0 {
		for i := range out {
			out[i] = fill
		}
	}
	for y := 0; y < h; y++ {
		ty := y + dy
		if ty < 0 || ty >= h {
			continue
		}
		for x := 0; x < w; x++ {
			tx := x + dx
			if tx < 0 || tx >= w {
				continue
			}
			out[ty*w+tx] = pix[y*w+x]
		}
	}
	return out, true
}
