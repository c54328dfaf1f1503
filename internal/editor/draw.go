package editor

import (
	"github.com/ironsheep/pixel-tools-mcp/internal/paint"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
	"github.com/ironsheep/pixel-tools-mcp/internal/selection"
)

// draw runs a rasterizer against the active layer. v is a packed color in
// RGBA mode and a palette index in Indexed mode; an index outside the
// palette is a no-op.
func (e *Editor) draw(
	v uint32,
	direct func(t paint.Target[uint32], v uint32) ([]uint32, bool),
	indexed func(t paint.Target[uint8], v uint8) ([]uint8, bool),
) bool {
	if e.floating != nil {
		return false
	}
	i := e.doc.ActiveIndex()
	l := e.doc.Layers[i]
	if l.Locked {
		return false
	}
	w, h, mask := e.doc.Width, e.doc.Height, selection.MaskOf(e.sel)

	switch px := l.Pixels.(type) {
	case pixel.Direct:
		out, changed := direct(paint.Target[uint32]{Pix: px, Width: w, Height: h, Mask: mask}, v)
		if !changed {
			return false
		}
		return e.setPixels(i, pixel.Direct(out), "")
	case pixel.Indexed:
		if !e.doc.Palette.Valid(int(v)) {
			return false
		}
		out, changed := indexed(paint.Target[uint8]{Pix: px, Width: w, Height: h, Mask: mask}, uint8(v))
		if !changed {
			return false
		}
		return e.setPixels(i, pixel.Indexed(out), "")
	}
	return false
}

// SetAt writes a single pixel.
func (e *Editor) SetAt(x, y int, v uint32) bool {
	return e.Stamp(x, y, paint.Brush{Size: 1}, v)
}

// Stamp writes the brush centered at (x, y).
func (e *Editor) Stamp(x, y int, b paint.Brush, v uint32) bool {
	return e.draw(v,
		func(t paint.Target[uint32], v uint32) ([]uint32, bool) { return paint.Stamp(t, x, y, b, v) },
		func(t paint.Target[uint8], v uint8) ([]uint8, bool) { return paint.Stamp(t, x, y, b, v) },
	)
}

// Line strokes the brush from (x0, y0) to (x1, y1).
func (e *Editor) Line(x0, y0, x1, y1 int, b paint.Brush, v uint32) bool {
	return e.draw(v,
		func(t paint.Target[uint32], v uint32) ([]uint32, bool) { return paint.Line(t, x0, y0, x1, y1, b, v) },
		func(t paint.Target[uint8], v uint8) ([]uint8, bool) { return paint.Line(t, x0, y0, x1, y1, b, v) },
	)
}

// Rect draws a rectangle outline or a filled rectangle.
func (e *Editor) Rect(x0, y0, x1, y1 int, filled bool, pattern *paint.Pattern, v uint32) bool {
	return e.draw(v,
		func(t paint.Target[uint32], v uint32) ([]uint32, bool) {
			return paint.Rect(t, x0, y0, x1, y1, filled, pattern, v)
		},
		func(t paint.Target[uint8], v uint8) ([]uint8, bool) {
			return paint.Rect(t, x0, y0, x1, y1, filled, pattern, v)
		},
	)
}

// Ellipse draws the ellipse inscribed in the given box.
func (e *Editor) Ellipse(x0, y0, x1, y1 int, filled bool, pattern *paint.Pattern, v uint32) bool {
	return e.draw(v,
		func(t paint.Target[uint32], v uint32) ([]uint32, bool) {
			return paint.Ellipse(t, x0, y0, x1, y1, filled, pattern, v)
		},
		func(t paint.Target[uint8], v uint8) ([]uint8, bool) {
			return paint.Ellipse(t, x0, y0, x1, y1, filled, pattern, v)
		},
	)
}

// Fill bucket-fills from (x, y).
func (e *Editor) Fill(x, y int, v uint32, contiguous bool) bool {
	return e.draw(v,
		func(t paint.Target[uint32], v uint32) ([]uint32, bool) { return paint.Fill(t, x, y, v, contiguous) },
		func(t paint.Target[uint8], v uint8) ([]uint8, bool) { return paint.Fill(t, x, y, v, contiguous) },
	)
}
