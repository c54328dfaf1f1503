// Package paint implements the pixel rasterizers used by the drawing tools.
//
// Every function is generic over the pixel representation (packed RGBA or
// palette index) and follows the same contract:
//   - pixels outside the canvas are ignored
//   - pixels excluded by the optional selection mask are never written
//   - the input buffer is never modified; on the first effective write the
//     buffer is copied and the copy is returned with changed=true
//   - if nothing would change, the input buffer is returned with changed=false
//
// Writing a value equal to the one already stored is not a change, which makes
// repeated stamps at the same spot cheap no-ops.
package paint

import (
	"image"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// Target describes the buffer a rasterizer draws into.
type Target[T pixel.Value] struct {
	Pix    []T
	Width  int
	Height int
	// Mask is an optional selection mask with one byte per pixel; zero bytes
	// are protected.
	Mask []uint8
}

// Brush is the square stamp used by Stamp and Line.
type Brush struct {
	Size    int
	Pattern *Pattern
}

// plotter accumulates copy-on-write writes into a target.
type plotter[T pixel.Value] struct {
	t       Target[T]
	out     []T
	pattern *Pattern
	v       T
}

func newPlotter[T pixel.Value](t Target[T], pattern *Pattern, v T) *plotter[T] {
	return &plotter[T]{t: t, pattern: pattern, v: v}
}

// writable reports whether (x, y) lies on the canvas and inside the mask.
func (p *plotter[T]) writable(x, y int) bool {
	if x < 0 || y < 0 || x >= p.t.Width || y >= p.t.Height {
		return false
	}
	return p.t.Mask == nil || p.t.Mask[y*p.t.Width+x] != 0
}

// plot writes the value at (x, y) if the cell is writable and the pattern
// allows it.
func (p *plotter[T]) plot(x, y int) {
	if !p.writable(x, y) || !p.pattern.Allows(x, y) {
		return
	}
	i := y*p.t.Width + x
	if p.out == nil {
		if p.t.Pix[i] == p.v {
			return
		}
		p.out = make([]T, len(p.t.Pix))
		copy(p.out, p.t.Pix)
	}
	p.out[i] = p.v
}

// span plots the inclusive horizontal run x0..x1 on row y.
func (p *plotter[T]) span(x0, x1, y int) {
	if y < 0 || y >= p.t.Height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, p.t.Width-1)
	for x := x0; x <= x1; x++ {
		p.plot(x, y)
	}
}

// stamp plots an n×n box whose top-left corner is floor(n/2) up and left of
// (x, y).
func (p *plotter[T]) stamp(x, y, n int) {
	if n < 1 {
		n = 1
	}
	left, top := x-n/2, y-n/2
	x0, y0 := max(left, 0), max(top, 0)
	x1, y1 := min(left+n-1, p.t.Width-1), min(top+n-1, p.t.Height-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			p.plot(px, py)
		}
	}
}

func (p *plotter[T]) result() ([]T, bool) {
	if p.out == nil {
		return p.t.Pix, false
	}
	return p.out, true
}

// SetAt writes a single pixel.
func SetAt[T pixel.Value](t Target[T], x, y int, v T) ([]T, bool) {
	p := newPlotter(t, nil, v)
	p.plot(x, y)
	return p.result()
}

// Stamp writes the brush box centered at (x, y).
func Stamp[T pixel.Value](t Target[T], x, y int, b Brush, v T) ([]T, bool) {
	p := newPlotter(t, b.Pattern, v)
	p.stamp(x, y, b.Size)
	return p.result()
}

// Line stamps the brush at every point of the Bresenham line from (x0, y0)
// to (x1, y1), both ends included. Points whose stamp cannot reach the canvas
// are skipped without walking them.
func Line[T pixel.Value](t Target[T], x0, y0, x1, y1 int, b Brush, v T) ([]T, bool) {
	p := newPlotter(t, b.Pattern, v)
	n := max(b.Size, 1)
	// A stamp centered at c covers c-n/2 .. c-n/2+n-1.
	lo, hiX, hiY := n/2-n+1, t.Width-1+n/2, t.Height-1+n/2
	bresenham(x0, y0, x1, y1, image.Rect(lo, lo, hiX+1, hiY+1), func(x, y int) {
		p.stamp(x, y, n)
	})
	return p.result()
}

// bresenham calls fn for each integer point of the segment that lies inside
// clip. Points are computed in closed form along the major axis, so only the
// part of the segment whose major coordinate falls inside clip is visited.
func bresenham(x0, y0, x1, y1 int, clip image.Rectangle, fn func(x, y int)) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	if dx >= dy {
		first, last := stepRange(x0, sx, dx, clip.Min.X, clip.Max.X-1)
		for k := first; k <= last; k++ {
			x, y := x0+sx*k, y0+sy*minorStep(k, dy, dx)
			if y >= clip.Min.Y && y < clip.Max.Y {
				fn(x, y)
			}
		}
		return
	}
	first, last := stepRange(y0, sy, dy, clip.Min.Y, clip.Max.Y-1)
	for k := first; k <= last; k++ {
		x, y := x0+sx*minorStep(k, dx, dy), y0+sy*k
		if x >= clip.Min.X && x < clip.Max.X {
			fn(x, y)
		}
	}
}

// minorStep returns how far the minor axis has advanced after k major steps
// of a line spanning major and minor units: floor((2*minor*k + major) / (2*major)).
func minorStep(k, minor, major int) int {
	if major == 0 {
		return 0
	}
	return int((2*int64(minor)*int64(k) + int64(major)) / (2 * int64(major)))
}

// stepRange returns the inclusive range of steps k in 0..n for which
// start+s*k lies in lo..hi. The range is empty when first > last.
func stepRange(start, s, n, lo, hi int) (first, last int) {
	if s < 0 {
		start, lo, hi = -start, -hi, -lo
	}
	first = max(0, lo-start)
	last = min(n, hi-start)
	return first, last
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
