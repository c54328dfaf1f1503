package editor

import (
	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/geometry"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// eachLayer rebuilds every layer buffer with the given per-representation
// functions and records the result. Locked layers are included: these are
// canvas operations, not paint.
func (e *Editor) eachLayer(
	key string,
	w, h int,
	direct func([]uint32) ([]uint32, bool),
	indexed func([]uint8) ([]uint8, bool),
) bool {
	if e.floating != nil {
		return false
	}
	after := e.doc.Clone()
	after.Width, after.Height = w, h
	changed := w != e.doc.Width || h != e.doc.Height
	for i, l := range after.Layers {
		switch px := l.Pixels.(type) {
		case pixel.Direct:
			if out, ok := direct(px); ok {
				after.Layers[i].Pixels = pixel.Direct(out)
				changed = true
			}
		case pixel.Indexed:
			if out, ok := indexed(px); ok {
				after.Layers[i].Pixels = pixel.Indexed(out)
				changed = true
			}
		}
	}
	if !changed {
		return false
	}
	return e.apply(e.doc, after, key)
}

// Resize changes the canvas size, keeping the top-left region. Sizes outside
// 1..canvas.MaxSize are a no-op. The selection is dropped.
func (e *Editor) Resize(w, h int) bool {
	if !canvas.ValidSize(w, h) || (w == e.doc.Width && h == e.doc.Height) {
		return false
	}
	ow, oh, ti := e.doc.Width, e.doc.Height, e.doc.Palette.TransparentIndex
	ok := e.eachLayer("", w, h,
		func(p []uint32) ([]uint32, bool) { return geometry.Resize(p, ow, oh, w, h, pixel.Transparent) },
		func(p []uint8) ([]uint8, bool) { return geometry.Resize(p, ow, oh, w, h, ti) },
	)
	if ok {
		e.sel = nil
		e.log.Debug("canvas resized", zap.Int("width", w), zap.Int("height", h))
	}
	return ok
}

// FlipHorizontal mirrors every layer left to right. The selection is
// dropped.
func (e *Editor) FlipHorizontal() bool {
	w, h := e.doc.Width, e.doc.Height
	ok := e.eachLayer("", w, h,
		func(p []uint32) ([]uint32, bool) { return geometry.FlipHorizontal(p, w, h) },
		func(p []uint8) ([]uint8, bool) { return geometry.FlipHorizontal(p, w, h) },
	)
	if ok {
		e.sel = nil
	}
	return ok
}

// FlipVertical mirrors every layer top to bottom. The selection is dropped.
func (e *Editor) FlipVertical() bool {
	w, h := e.doc.Width, e.doc.Height
	ok := e.eachLayer("", w, h,
		func(p []uint32) ([]uint32, bool) { return geometry.FlipVertical(p, w, h) },
		func(p []uint8) ([]uint8, bool) { return geometry.FlipVertical(p, w, h) },
	)
	if ok {
		e.sel = nil
	}
	return ok
}

// TranslateLayer shifts the active layer by (dx, dy), ignoring the
// selection. Consecutive moves of the same layer coalesce into one entry.
func (e *Editor) TranslateLayer(dx, dy int) bool {
	if e.floating != nil {
		return false
	}
	i := e.doc.ActiveIndex()
	l := e.doc.Layers[i]
	if l.Locked {
		return false
	}
	w, h := e.doc.Width, e.doc.Height
	key := "translate:" + l.ID
	switch px := l.Pixels.(type) {
	case pixel.Direct:
		if out, ok := geometry.Translate([]uint32(px), w, h, dx, dy, pixel.Transparent); ok {
			return e.setPixels(i, pixel.Direct(out), key)
		}
	case pixel.Indexed:
		if out, ok := geometry.Translate([]uint8(px), w, h, dx, dy, e.doc.Palette.TransparentIndex); ok {
			return e.setPixels(i, pixel.Indexed(out), key)
		}
	}
	return false
}
