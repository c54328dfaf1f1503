// Package editor coordinates every mutation of a document.
//
// An Editor owns one canvas.Document together with the current selection,
// the floating patch (if a selection is being moved or transformed) and the
// undo history. Each mutator checks its preconditions, runs the relevant
// engine against the current buffers and, if the engine reports a change,
// swaps the new buffers in and records a history entry.
//
// Mutators return whether anything changed. Conditions caused by user input
// (a locked layer, an out-of-range index, a point outside the canvas, a
// conflicting floating patch) are silent no-ops. Calls that can only come
// from broken integration code, such as applying a palette preset to an RGBA
// document, panic.
//
// An Editor is not safe for concurrent use.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/composite"
	"github.com/ironsheep/pixel-tools-mcp/internal/history"
	"github.com/ironsheep/pixel-tools-mcp/internal/palette"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
	"github.com/ironsheep/pixel-tools-mcp/internal/selection"
)

// DefaultIndexedPreset seeds the palette of new Indexed documents.
const DefaultIndexedPreset = "pico-8"

// Editor is the mutation orchestrator for one document.
type Editor struct {
	doc      canvas.Document
	sel      *selection.Selection
	floating *selection.Floating
	// liftBase is the document as it was before the floating patch was
	// lifted; the commit entry is recorded against it.
	liftBase canvas.Document

	hist    *history.History
	cfg     Config
	log     *zap.Logger
	palette *pixel.Palette
	nextID  int
}

// New creates an editor holding a blank w×h document with a single layer.
func New(w, h int, mode pixel.ColorMode, opts ...Option) (*Editor, error) {
	if !canvas.ValidSize(w, h) {
		return nil, fmt.Errorf("new document %dx%d: %w", w, h, canvas.ErrInvalidSize)
	}
	e := newEditor(opts)

	pal := pixel.NewPalette(nil, 0)
	switch {
	case e.palette != nil:
		pal = *e.palette
	case mode == pixel.IndexedColor:
		p, err := palette.Preset(DefaultIndexedPreset, e.cfg.TransparentSlot)
		if err != nil {
			return nil, fmt.Errorf("default palette: %w", err)
		}
		pal = p
	}

	id := e.newLayerID()
	e.doc = canvas.Document{
		Width:  w,
		Height: h,
		Mode:   mode,
		Layers: []canvas.Layer{{
			ID:      id,
			Visible: true,
			Pixels:  pixel.NewPixels(mode, w*h, pal.TransparentIndex),
		}},
		Palette:       pal,
		ActiveLayerID: id,
	}
	e.log.Debug("document created",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Stringer("mode", mode))
	return e, nil
}

// FromDocument creates an editor for an existing document, for example one
// restored from a snapshot. The document is validated first.
func FromDocument(doc canvas.Document, opts ...Option) (*Editor, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	e := newEditor(opts)
	e.doc = doc.Clone()
	e.nextID = len(doc.Layers)
	return e, nil
}

func newEditor(opts []Option) *Editor {
	e := &Editor{
		cfg: DefaultConfig(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hist = history.New(e.cfg.MaxHistory)
	return e
}

// newLayerID returns an ID not used by any layer of the document.
func (e *Editor) newLayerID() string {
	for {
		e.nextID++
		id := fmt.Sprintf("layer-%d", e.nextID)
		if e.doc.LayerIndex(id) < 0 {
			return id
		}
	}
}

// Document returns the current document. Callers must treat its buffers as
// read-only.
func (e *Editor) Document() canvas.Document { return e.doc.Clone() }

// Width returns the canvas width.
func (e *Editor) Width() int { return e.doc.Width }

// Height returns the canvas height.
func (e *Editor) Height() int { return e.doc.Height }

// Mode returns the canvas color mode.
func (e *Editor) Mode() pixel.ColorMode { return e.doc.Mode }

// Palette returns a copy of the palette.
func (e *Editor) Palette() pixel.Palette { return e.doc.Palette.Clone() }

// ActiveLayer returns the active layer.
func (e *Editor) ActiveLayer() canvas.Layer {
	return e.doc.Layers[e.doc.ActiveIndex()]
}

// Selection returns the current selection, or nil.
func (e *Editor) Selection() *selection.Selection { return e.sel }

// Floating returns the floating patch, or nil.
func (e *Editor) Floating() *selection.Floating { return e.floating }

// Transparent returns the "no paint" value of the current mode.
func (e *Editor) Transparent() uint32 { return e.doc.Transparent() }

// Composite renders the visible layers, including a preview of the floating
// patch at its current transform.
func (e *Editor) Composite() []uint32 {
	layers := e.doc.Layers
	if e.floating != nil {
		if i := e.doc.LayerIndex(e.floating.Layer.ID); i >= 0 {
			layers = make([]canvas.Layer, len(e.doc.Layers))
			copy(layers, e.doc.Layers)
			layers[i].Pixels, _ = e.stampFloating(layers[i].Pixels)
		}
	}
	return composite.Image(layers, e.doc.Palette, e.doc.Width, e.doc.Height)
}

// PickColor returns the stored value of the active layer at (x, y): a packed
// color in RGBA mode, a palette index in Indexed mode.
func (e *Editor) PickColor(x, y int) (uint32, bool) {
	if x < 0 || y < 0 || x >= e.doc.Width || y >= e.doc.Height {
		return 0, false
	}
	i := y*e.doc.Width + x
	switch px := e.ActiveLayer().Pixels.(type) {
	case pixel.Direct:
		return px[i], true
	case pixel.Indexed:
		return uint32(px[i]), true
	}
	return 0, false
}

// apply installs after as the current document and records it against
// before under key.
func (e *Editor) apply(before, after canvas.Document, key string) bool {
	e.doc = after
	if e.hist.Record(before, after, key) {
		e.log.Debug("history push",
			zap.String("key", key),
			zap.Int("depth", e.hist.Len()))
	}
	return true
}

// setPixels replaces the buffer of layer i.
func (e *Editor) setPixels(i int, p pixel.Pixels, key string) bool {
	after := e.doc.Clone()
	after.Layers[i].Pixels = p
	return e.apply(e.doc, after, key)
}

// BeginStroke opens a stroke: every edit until EndStroke is undone in one
// step. It fails while a stroke or floating patch is open.
func (e *Editor) BeginStroke() bool {
	if e.floating != nil {
		return false
	}
	return e.hist.BeginStroke(e.doc, "")
}

// EndStroke closes the stroke and reports whether it recorded an entry.
func (e *Editor) EndStroke() bool {
	if !e.hist.EndStroke(e.doc) {
		return false
	}
	e.log.Debug("stroke recorded", zap.Int("depth", e.hist.Len()))
	return true
}

// InStroke reports whether a stroke is open.
func (e *Editor) InStroke() bool { return e.hist.InStroke() }

// Undo reverts the most recent entry. It is refused while a stroke or a
// floating patch is open.
func (e *Editor) Undo() bool {
	if e.floating != nil {
		return false
	}
	doc, ok := e.hist.Undo(e.doc)
	if !ok {
		return false
	}
	e.restore(doc)
	e.log.Debug("undo", zap.Int("depth", e.hist.Len()))
	return true
}

// Redo replays the most recently undone entry.
func (e *Editor) Redo() bool {
	if e.floating != nil {
		return false
	}
	doc, ok := e.hist.Redo(e.doc)
	if !ok {
		return false
	}
	e.restore(doc)
	e.log.Debug("redo", zap.Int("depth", e.hist.Len()))
	return true
}

// restore installs a document produced by the history, dropping a selection
// that no longer fits the canvas.
func (e *Editor) restore(doc canvas.Document) {
	if doc.Width != e.doc.Width || doc.Height != e.doc.Height {
		e.sel = nil
	}
	e.doc = doc
}

// CanUndo reports whether Undo would succeed.
func (e *Editor) CanUndo() bool { return e.floating == nil && e.hist.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (e *Editor) CanRedo() bool { return e.floating == nil && e.hist.CanRedo() }

// HistoryLen returns the number of undoable entries.
func (e *Editor) HistoryLen() int { return e.hist.Len() }
