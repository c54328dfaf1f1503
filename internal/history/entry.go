// Package history records document edits as diffs and replays them for undo
// and redo.
//
// An Entry is a list of tagged field changes between two documents. Field
// changes cover the canvas-level fields; layer contents are recorded either
// as one LayersChange replacing the whole stack (when layers were added,
// removed, reordered, re-flagged or converted) or as one PixelsChange per
// layer whose buffer contents differ. Pixel buffers are immutable once
// published, so entries hold references rather than copies.
package history

import (
	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// Change is one field-level difference between two documents.
type Change interface {
	// apply writes the before (forward=false) or after (forward=true) side
	// into doc.
	apply(doc *canvas.Document, forward bool)
	// merge folds next into the receiver when both change the same field
	// and next starts where the receiver ends.
	merge(next Change) (Change, bool)
	// noop reports whether both sides are equal.
	noop() bool
}

// WidthChange records a canvas width change.
type WidthChange struct{ Before, After int }

// HeightChange records a canvas height change.
type HeightChange struct{ Before, After int }

// ModeChange records a color mode conversion.
type ModeChange struct{ Before, After pixel.ColorMode }

// ActiveLayerChange records a change of the active layer ID.
type ActiveLayerChange struct{ Before, After string }

// PaletteChange replaces the whole palette.
type PaletteChange struct{ Before, After pixel.Palette }

// LayersChange replaces the whole layer stack.
type LayersChange struct{ Before, After []canvas.Layer }

// PixelsChange replaces the buffer of one layer.
type PixelsChange struct {
	LayerID string
	Before  pixel.Pixels
	After   pixel.Pixels
}

func (c WidthChange) apply(doc *canvas.Document, forward bool) {
	doc.Width = pick(c.Before, c.After, forward)
}

func (c HeightChange) apply(doc *canvas.Document, forward bool) {
	doc.Height = pick(c.Before, c.After, forward)
}

func (c ModeChange) apply(doc *canvas.Document, forward bool) {
	doc.Mode = pick(c.Before, c.After, forward)
}

func (c ActiveLayerChange) apply(doc *canvas.Document, forward bool) {
	doc.ActiveLayerID = pick(c.Before, c.After, forward)
}

func (c PaletteChange) apply(doc *canvas.Document, forward bool) {
	doc.Palette = pick(c.Before, c.After, forward).Clone()
}

func (c LayersChange) apply(doc *canvas.Document, forward bool) {
	src := pick(c.Before, c.After, forward)
	doc.Layers = make([]canvas.Layer, len(src))
	copy(doc.Layers, src)
}

func (c PixelsChange) apply(doc *canvas.Document, forward bool) {
	if i := doc.LayerIndex(c.LayerID); i >= 0 {
		doc.Layers[i].Pixels = pick(c.Before, c.After, forward)
	}
}

func pick[T any](before, after T, forward bool) T {
	if forward {
		return after
	}
	return before
}

func (c WidthChange) merge(Change) (Change, bool)  { return nil, false }
func (c HeightChange) merge(Change) (Change, bool) { return nil, false }
func (c ModeChange) merge(Change) (Change, bool)   { return nil, false }
func (c LayersChange) merge(Change) (Change, bool) { return nil, false }

func (c ActiveLayerChange) merge(next Change) (Change, bool) {
	n, ok := next.(ActiveLayerChange)
	if !ok || n.Before != c.After {
		return nil, false
	}
	return ActiveLayerChange{Before: c.Before, After: n.After}, true
}

func (c PaletteChange) merge(next Change) (Change, bool) {
	n, ok := next.(PaletteChange)
	if !ok || !n.Before.Equal(c.After) {
		return nil, false
	}
	return PaletteChange{Before: c.Before, After: n.After}, true
}

func (c PixelsChange) merge(next Change) (Change, bool) {
	n, ok := next.(PixelsChange)
	if !ok || n.LayerID != c.LayerID || !n.Before.Equal(c.After) {
		return nil, false
	}
	return PixelsChange{LayerID: c.LayerID, Before: c.Before, After: n.After}, true
}

func (c WidthChange) noop() bool       { return c.Before == c.After }
func (c HeightChange) noop() bool      { return c.Before == c.After }
func (c ModeChange) noop() bool        { return c.Before == c.After }
func (c ActiveLayerChange) noop() bool { return c.Before == c.After }
func (c PaletteChange) noop() bool     { return c.Before.Equal(c.After) }
func (c PixelsChange) noop() bool      { return c.Before.Equal(c.After) }

func (c LayersChange) noop() bool {
	return !layersDiffer(c.Before, c.After)
}

// Entry is one undoable step.
type Entry struct {
	// Key identifies the kind of edit for coalescing, e.g. "palette:5".
	// Entries with an empty key never coalesce.
	Key     string
	Changes []Change
}

// Empty reports whether the entry changes nothing.
func (e Entry) Empty() bool {
	for _, c := range e.Changes {
		if !c.noop() {
			return false
		}
	}
	return true
}

// Apply returns doc with the entry replayed forward (redo) or backward
// (undo). doc itself is not modified.
func (e Entry) Apply(doc canvas.Document, forward bool) canvas.Document {
	out := doc.Clone()
	for _, c := range e.Changes {
		if _, ok := c.(PixelsChange); ok {
			continue
		}
		c.apply(&out, forward)
	}
	// Pixel changes address layers by ID, so they go after any stack change.
	for _, c := range e.Changes {
		if pc, ok := c.(PixelsChange); ok {
			pc.apply(&out, forward)
		}
	}
	return out
}

// Diff captures the differences between two documents.
func Diff(before, after canvas.Document) Entry {
	var changes []Change
	if before.Width != after.Width {
		changes = append(changes, WidthChange{before.Width, after.Width})
	}
	if before.Height != after.Height {
		changes = append(changes, HeightChange{before.Height, after.Height})
	}
	if before.Mode != after.Mode {
		changes = append(changes, ModeChange{before.Mode, after.Mode})
	}
	if before.ActiveLayerID != after.ActiveLayerID {
		changes = append(changes, ActiveLayerChange{before.ActiveLayerID, after.ActiveLayerID})
	}
	if !before.Palette.Equal(after.Palette) {
		changes = append(changes, PaletteChange{before.Palette.Clone(), after.Palette.Clone()})
	}

	if structural(before.Layers, after.Layers) {
		b := make([]canvas.Layer, len(before.Layers))
		copy(b, before.Layers)
		a := make([]canvas.Layer, len(after.Layers))
		copy(a, after.Layers)
		return Entry{Changes: append(changes, LayersChange{b, a})}
	}
	for i, a := range after.Layers {
		b := before.Layers[i]
		if pixel.Same(b.Pixels, a.Pixels) || b.Pixels.Equal(a.Pixels) {
			continue
		}
		changes = append(changes, PixelsChange{LayerID: a.ID, Before: b.Pixels, After: a.Pixels})
	}
	return Entry{Changes: changes}
}

// structural reports whether the stacks differ in anything other than pixel
// contents: count, order, identity, flags or representation.
func structural(before, after []canvas.Layer) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		b, a := before[i], after[i]
		if b.ID != a.ID || b.Visible != a.Visible || b.Locked != a.Locked || b.Pixels.Mode() != a.Pixels.Mode() {
			return true
		}
	}
	return false
}

// layersDiffer reports whether two stacks differ at all.
func layersDiffer(before, after []canvas.Layer) bool {
	if structural(before, after) {
		return true
	}
	for i := range before {
		if !pixel.Same(before[i].Pixels, after[i].Pixels) && !before[i].Pixels.Equal(after[i].Pixels) {
			return true
		}
	}
	return false
}

// Coalesces reports whether next may be folded into prev: both carry the
// same non-empty key and consist of a single change to the same field, and
// next starts exactly where prev ends.
func Coalesces(prev, next Entry) bool {
	_, ok := merged(prev, next)
	return ok
}

func merged(prev, next Entry) (Entry, bool) {
	if prev.Key == "" || prev.Key != next.Key || len(prev.Changes) != 1 || len(next.Changes) != 1 {
		return Entry{}, false
	}
	c, ok := prev.Changes[0].merge(next.Changes[0])
	if !ok {
		return Entry{}, false
	}
	return Entry{Key: prev.Key, Changes: []Change{c}}, true
}
