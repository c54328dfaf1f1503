package history

import "github.com/ironsheep/pixel-tools-mcp/internal/canvas"

// DefaultLimit is the undo depth used when none is configured.
const DefaultLimit = 256

// History holds the undo and redo stacks and the open stroke, if any.
//
// It is not safe for concurrent use.
type History struct {
	undo  []Entry
	redo  []Entry
	limit int

	stroke    *canvas.Document
	strokeKey string

	// sealed blocks coalescing into the top entry after an undo or redo.
	sealed bool
}

// New returns an empty history keeping at most limit entries. A
// non-positive limit keeps everything.
func New(limit int) *History {
	return &History{limit: limit}
}

// Record diffs before against after and pushes the result. It returns false
// when nothing changed. While a stroke is open nothing is recorded; the
// stroke's own entry covers the edit.
func (h *History) Record(before, after canvas.Document, key string) bool {
	if h.stroke != nil {
		return false
	}
	e := Diff(before, after)
	e.Key = key
	return h.Push(e)
}

// Push adds e to the undo stack, coalescing it with the top entry when
// Coalesces allows. Empty entries are dropped. Any push clears redo.
func (h *History) Push(e Entry) bool {
	if e.Empty() {
		return false
	}
	h.redo = nil
	if n := len(h.undo); n > 0 && !h.sealed {
		if m, ok := merged(h.undo[n-1], e); ok {
			if m.Empty() {
				h.undo = h.undo[:n-1]
			} else {
				h.undo[n-1] = m
			}
			return true
		}
	}
	h.sealed = false
	h.undo = append(h.undo, e)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = append(h.undo[:0:0], h.undo[len(h.undo)-h.limit:]...)
	}
	return true
}

// BeginStroke opens a stroke with doc as its baseline. It returns false if
// a stroke is already open.
func (h *History) BeginStroke(doc canvas.Document, key string) bool {
	if h.stroke != nil {
		return false
	}
	base := doc.Clone()
	h.stroke = &base
	h.strokeKey = key
	return true
}

// InStroke reports whether a stroke is open.
func (h *History) InStroke() bool {
	return h.stroke != nil
}

// EndStroke closes the open stroke and records one entry from its baseline
// to doc. It returns whether an entry was pushed.
func (h *History) EndStroke(doc canvas.Document) bool {
	if h.stroke == nil {
		return false
	}
	base, key := *h.stroke, h.strokeKey
	h.stroke, h.strokeKey = nil, ""
	return h.Record(base, doc, key)
}

// Undo reverts the top entry against doc. It fails while a stroke is open.
func (h *History) Undo(doc canvas.Document) (canvas.Document, bool) {
	if h.stroke != nil || len(h.undo) == 0 {
		return doc, false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	h.sealed = true
	return e.Apply(doc, false), true
}

// Redo replays the most recently undone entry against doc.
func (h *History) Redo(doc canvas.Document) (canvas.Document, bool) {
	if h.stroke != nil || len(h.redo) == 0 {
		return doc, false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	h.sealed = true
	return e.Apply(doc, true), true
}

// CanUndo reports whether Undo would apply an entry. It is false inside a stroke.
func (h *History) CanUndo() bool { return h.stroke == nil && len(h.undo) > 0 }

// CanRedo reports whether Redo would apply an entry. It is false inside a stroke.
func (h *History) CanRedo() bool { return h.stroke == nil && len(h.redo) > 0 }

// Len returns the number of undoable entries.
func (h *History) Len() int { return len(h.undo) }

// RedoLen returns the number of redoable entries.
func (h *History) RedoLen() int { return len(h.redo) }

// Clear drops both stacks and any open stroke.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
	h.stroke, h.strokeKey = nil, ""
	h.sealed = false
}

// Seal prevents the next entry from coalescing with the current top.
func (h *History) Seal() {
	h.sealed = true
}
