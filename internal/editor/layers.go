package editor

import (
	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// AddLayer inserts a blank layer above the active one and activates it. It
// returns the new layer's ID, or "" if a floating patch is open.
func (e *Editor) AddLayer() string {
	if e.floating != nil {
		return ""
	}
	l := canvas.Layer{
		ID:      e.newLayerID(),
		Visible: true,
		Pixels:  pixel.NewPixels(e.doc.Mode, e.doc.Width*e.doc.Height, e.doc.Palette.TransparentIndex),
	}
	e.insertLayer(e.doc.ActiveIndex()+1, l)
	return l.ID
}

// DuplicateLayer copies layer id (sharing its immutable buffer) directly
// above it and activates the copy. The copy starts unlocked.
func (e *Editor) DuplicateLayer(id string) string {
	i := e.doc.LayerIndex(id)
	if i < 0 || e.floating != nil {
		return ""
	}
	l := e.doc.Layers[i]
	l.ID = e.newLayerID()
	l.Locked = false
	e.insertLayer(i+1, l)
	return l.ID
}

func (e *Editor) insertLayer(at int, l canvas.Layer) {
	after := e.doc.Clone()
	after.Layers = append(after.Layers[:at], append([]canvas.Layer{l}, after.Layers[at:]...)...)
	after.ActiveLayerID = l.ID
	e.apply(e.doc, after, "")
}

// RemoveLayer deletes layer id. The last remaining layer is never removed.
// When the active layer goes, the layer that took its place (or the new top)
// becomes active.
func (e *Editor) RemoveLayer(id string) bool {
	i := e.doc.LayerIndex(id)
	if i < 0 || len(e.doc.Layers) == 1 || e.floating != nil {
		return false
	}
	after := e.doc.Clone()
	after.Layers = append(after.Layers[:i], after.Layers[i+1:]...)
	if after.ActiveLayerID == id {
		after.ActiveLayerID = after.Layers[min(i, len(after.Layers)-1)].ID
	}
	return e.apply(e.doc, after, "")
}

// MoveLayer moves layer id to position to in the bottom-to-top stack.
func (e *Editor) MoveLayer(id string, to int) bool {
	i := e.doc.LayerIndex(id)
	if i < 0 || to < 0 || to >= len(e.doc.Layers) || to == i || e.floating != nil {
		return false
	}
	after := e.doc.Clone()
	l := after.Layers[i]
	after.Layers = append(after.Layers[:i], after.Layers[i+1:]...)
	after.Layers = append(after.Layers[:to], append([]canvas.Layer{l}, after.Layers[to:]...)...)
	return e.apply(e.doc, after, "")
}

// SetActiveLayer activates layer id. Consecutive activations coalesce into
// one history entry.
func (e *Editor) SetActiveLayer(id string) bool {
	if e.doc.LayerIndex(id) < 0 || id == e.doc.ActiveLayerID || e.floating != nil {
		return false
	}
	after := e.doc.Clone()
	after.ActiveLayerID = id
	return e.apply(e.doc, after, "active-layer")
}

// SetLayerVisible shows or hides layer id.
func (e *Editor) SetLayerVisible(id string, visible bool) bool {
	return e.setFlag(id, func(l *canvas.Layer) bool {
		if l.Visible == visible {
			return false
		}
		l.Visible = visible
		return true
	})
}

// SetLayerLocked locks or unlocks layer id.
func (e *Editor) SetLayerLocked(id string, locked bool) bool {
	return e.setFlag(id, func(l *canvas.Layer) bool {
		if l.Locked == locked {
			return false
		}
		l.Locked = locked
		return true
	})
}

func (e *Editor) setFlag(id string, set func(*canvas.Layer) bool) bool {
	i := e.doc.LayerIndex(id)
	if i < 0 || e.floating != nil {
		return false
	}
	after := e.doc.Clone()
	if !set(&after.Layers[i]) {
		return false
	}
	return e.apply(e.doc, after, "")
}

// ClearLayer resets every pixel of layer id to transparent.
func (e *Editor) ClearLayer(id string) bool {
	i := e.doc.LayerIndex(id)
	if i < 0 || e.floating != nil || e.doc.Layers[i].Locked {
		return false
	}
	blank := pixel.NewPixels(e.doc.Mode, e.doc.Width*e.doc.Height, e.doc.Palette.TransparentIndex)
	if blank.Equal(e.doc.Layers[i].Pixels) {
		return false
	}
	return e.setPixels(i, blank, "")
}

// Layers returns the layer stack, bottom to top.
func (e *Editor) Layers() []canvas.Layer {
	out := make([]canvas.Layer, len(e.doc.Layers))
	copy(out, e.doc.Layers)
	return out
}
