package paint

import (
	"math"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// Rect draws the rectangle spanned by two inclusive corners. The outline is
// one pixel thick; filled draws the whole interior. Corners may be given in
// any order and may lie off-canvas.
func Rect[T pixel.Value](t Target[T], x0, y0, x1, y1 int, filled bool, pattern *Pattern, v T) ([]T, bool) {
	left, right := min(x0, x1), max(x0, x1)
	top, bottom := min(y0, y1), max(y0, y1)
	p := newPlotter(t, pattern, v)
	if filled {
		for y := max(top, 0); y <= min(bottom, t.Height-1); y++ {
			p.span(left, right, y)
		}
		return p.result()
	}
	p.span(left, right, top)
	p.span(left, right, bottom)
	for y := max(top+1, 0); y <= min(bottom-1, t.Height-1); y++ {
		p.plot(left, y)
		p.plot(right, y)
	}
	return p.result()
}

// Ellipse draws the ellipse inscribed in the box spanned by two inclusive
// corners using the two-region midpoint algorithm.
//
// Semi-axes are a = |x1-x0|/2 and b = |y1-y0|/2 around the box midpoint. When
// a > b the quadrant is walked with the axes swapped so that the walk always
// runs along the axis where b >= a. Offsets are clamped to the semi-axes and
// round outward from a half-pixel center, so the output stays inside the box
// and is symmetric under a 180° rotation.
func Ellipse[T pixel.Value](t Target[T], x0, y0, x1, y1 int, filled bool, pattern *Pattern, v T) ([]T, bool) {
	if max(x0, x1) < 0 || max(y0, y1) < 0 || min(x0, x1) >= t.Width || min(y0, y1) >= t.Height {
		return t.Pix, false
	}
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	a := math.Abs(float64(x1-x0)) / 2
	b := math.Abs(float64(y1-y0)) / 2

	p := newPlotter(t, pattern, v)
	ellipseQuadrant(a, b, func(dx, dy float64) {
		dx, dy = min(dx, a), min(dy, b)
		left := int(math.Floor(cx - dx))
		right := int(math.Ceil(cx + dx))
		top := int(math.Floor(cy - dy))
		bottom := int(math.Ceil(cy + dy))
		if filled {
			p.span(left, right, top)
			p.span(left, right, bottom)
			return
		}
		p.plot(right, bottom)
		p.plot(left, bottom)
		p.plot(right, top)
		p.plot(left, top)
	})
	return p.result()
}

// ellipseQuadrant emits the non-negative offsets (dx, dy) of one quadrant of
// the ellipse with semi-axes a (horizontal) and b (vertical).
func ellipseQuadrant(a, b float64, emit func(dx, dy float64)) {
	if a > b {
		ellipseQuadrant(b, a, func(dx, dy float64) { emit(dy, dx) })
		return
	}
	a2, b2 := a*a, b*b
	x, y := 0.0, b

	// Region 1: x steps every iteration, y steps when the midpoint leaves
	// the ellipse.
	d1 := b2 - a2*b + a2/4
	for b2*(x+1) < a2*(y-0.5) {
		emit(x, y)
		if d1 < 0 {
			d1 += b2 * (2*x + 3)
		} else {
			d1 += b2*(2*x+3) + a2*(-2*y+2)
			y--
		}
		x++
	}

	// Region 2: y steps every iteration until it crosses the horizontal axis.
	d2 := b2*(x+0.5)*(x+0.5) + a2*(y-1)*(y-1) - a2*b2
	for y >= 0 {
		emit(x, y)
		if d2 > 0 {
			d2 += a2 * (-2*y + 3)
		} else {
			d2 += b2*(2*x+2) + a2*(-2*y+3)
			x++
		}
		y--
	}
}
