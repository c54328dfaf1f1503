package editor

import (
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
	"github.com/ironsheep/pixel-tools-mcp/internal/selection"
)

// setSelection installs s and reports whether the selection changed in
// presence or extent. Selections are not part of the undo history.
func (e *Editor) setSelection(s *selection.Selection) bool {
	if e.floating != nil {
		return false
	}
	prev := e.sel
	e.sel = s
	if prev == nil || s == nil {
		return prev != s
	}
	return prev.Bounds != s.Bounds || prev.Count() != s.Count()
}

// SelectRect selects the rectangle spanned by two inclusive corners.
func (e *Editor) SelectRect(x0, y0, x1, y1 int) bool {
	if e.floating != nil {
		return false
	}
	return e.setSelection(selection.Rect(e.doc.Width, e.doc.Height, x0, y0, x1, y1))
}

// SelectPolygon selects the inside of a lasso path.
func (e *Editor) SelectPolygon(pts []image.Point) bool {
	if e.floating != nil {
		return false
	}
	return e.setSelection(selection.Polygon(e.doc.Width, e.doc.Height, pts))
}

// SelectMagicWand selects pixels of the active layer equal to the one at
// (x, y), either connected to it or anywhere on the layer.
func (e *Editor) SelectMagicWand(x, y int, contiguous bool) bool {
	if e.floating != nil {
		return false
	}
	var value func(i int) uint32
	switch px := e.ActiveLayer().Pixels.(type) {
	case pixel.Direct:
		value = func(i int) uint32 { return px[i] }
	case pixel.Indexed:
		value = func(i int) uint32 { return uint32(px[i]) }
	}
	return e.setSelection(selection.MagicWand(e.doc.Width, e.doc.Height, x, y, value, contiguous))
}

// SelectAll selects the whole canvas.
func (e *Editor) SelectAll() bool {
	return e.setSelection(selection.All(e.doc.Width, e.doc.Height))
}

// InvertSelection selects everything that is not selected.
func (e *Editor) InvertSelection() bool {
	return e.setSelection(selection.Invert(e.sel, e.doc.Width, e.doc.Height))
}

// ClearSelection drops the selection.
func (e *Editor) ClearSelection() bool {
	return e.setSelection(nil)
}

// DeleteSelection clears the selected pixels of the active layer.
func (e *Editor) DeleteSelection() bool {
	if e.sel == nil || e.floating != nil {
		return false
	}
	i := e.doc.ActiveIndex()
	l := e.doc.Layers[i]
	if l.Locked {
		return false
	}
	switch px := l.Pixels.(type) {
	case pixel.Direct:
		_, cleared, changed := selection.Lift([]uint32(px), e.sel, pixel.Transparent)
		if changed {
			return e.setPixels(i, pixel.Direct(cleared), "")
		}
	case pixel.Indexed:
		_, cleared, changed := selection.Lift([]uint8(px), e.sel, e.doc.Palette.TransparentIndex)
		if changed {
			return e.setPixels(i, pixel.Indexed(cleared), "")
		}
	}
	return false
}

// BeginTransform lifts the selected pixels of the active layer into a
// floating patch. The source cells are cleared. It requires a selection, an
// unlocked active layer and no open stroke or patch.
func (e *Editor) BeginTransform() bool {
	if e.sel == nil || e.floating != nil || e.hist.InStroke() {
		return false
	}
	i := e.doc.ActiveIndex()
	l := e.doc.Layers[i]
	if l.Locked {
		return false
	}

	b := e.sel.Bounds
	f := &selection.Floating{Layer: l, Bounds: b, Transform: selection.NewTransform(b)}
	var cleared pixel.Pixels
	switch px := l.Pixels.(type) {
	case pixel.Direct:
		patch, out, _ := selection.Lift([]uint32(px), e.sel, pixel.Transparent)
		f.Patch = selection.DirectPatch(b.Dx(), b.Dy(), patch)
		cleared = pixel.Direct(out)
	case pixel.Indexed:
		patch, out, _ := selection.Lift([]uint8(px), e.sel, e.doc.Palette.TransparentIndex)
		f.Patch = selection.IndexedPatch(b.Dx(), b.Dy(), patch, e.doc.Palette)
		cleared = pixel.Indexed(out)
	}

	e.liftBase = e.doc
	e.doc = e.doc.Clone()
	e.doc.Layers[i].Pixels = cleared
	e.floating = f
	e.log.Debug("selection lifted",
		zap.String("layer", l.ID),
		zap.Stringer("bounds", b))
	return true
}

// SetTransform replaces the transform of the floating patch.
func (e *Editor) SetTransform(t selection.Transform) bool {
	if e.floating == nil || e.floating.Transform == t {
		return false
	}
	e.floating.Transform = t
	return true
}

// MoveFloating shifts the floating patch by (dx, dy).
func (e *Editor) MoveFloating(dx, dy float64) bool {
	if e.floating == nil {
		return false
	}
	return e.SetTransform(e.floating.Transform.Translate(dx, dy))
}

// stampFloating commits the floating patch at its current transform onto p.
func (e *Editor) stampFloating(p pixel.Pixels) (pixel.Pixels, bool) {
	clip := image.Rect(0, 0, e.doc.Width, e.doc.Height)
	s := e.floating.Transform.Sample(e.floating.Patch, clip)
	switch px := p.(type) {
	case pixel.Direct:
		out, changed := selection.CommitDirect(px, e.doc.Width, s)
		return pixel.Direct(out), changed
	case pixel.Indexed:
		out, changed := selection.CommitIndexed(px, e.doc.Width, s, e.doc.Palette)
		return pixel.Indexed(out), changed
	}
	return p, false
}

// CommitTransform stamps the floating patch into its layer and records the
// whole lift-transform-commit sequence as one history entry. The selection
// is cleared.
func (e *Editor) CommitTransform() bool {
	if e.floating == nil {
		return false
	}
	after := e.doc.Clone()
	if i := after.LayerIndex(e.floating.Layer.ID); i >= 0 {
		after.Layers[i].Pixels, _ = e.stampFloating(after.Layers[i].Pixels)
	}
	base := e.liftBase
	e.floating, e.sel, e.liftBase = nil, nil, canvas.Document{}
	e.apply(base, after, "")
	e.log.Debug("transform committed", zap.Int("depth", e.hist.Len()))
	return true
}

// CancelTransform discards the floating patch and restores the layer as it
// was before the lift. The selection is cleared.
func (e *Editor) CancelTransform() bool {
	if e.floating == nil {
		return false
	}
	if i := e.doc.LayerIndex(e.floating.Layer.ID); i >= 0 {
		e.doc = e.doc.Clone()
		e.doc.Layers[i] = e.floating.Layer
	}
	e.floating, e.sel = nil, nil
	return true
}
