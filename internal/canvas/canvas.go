// Package canvas defines the document model edited by the engines: a stack of
// layers that share one size and one color mode, plus the palette used by
// Indexed documents.
//
// Document is a value type. Copying a Document copies the layer slice header
// only; callers that need an independent layer list use Clone. Pixel buffers
// are never mutated in place, so sharing them between documents is safe.
package canvas

import (
	"errors"
	"fmt"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// MaxSize is the largest accepted width or height.
const MaxSize = 2048

// ErrInvalidSize is returned when a width or height falls outside 1..MaxSize.
var ErrInvalidSize = errors.New("canvas size out of range")

// Layer is one entry of the layer stack.
type Layer struct {
	ID      string
	Visible bool
	Locked  bool
	Pixels  pixel.Pixels
}

// Document is the complete editable state of a canvas.
type Document struct {
	Width         int
	Height        int
	Mode          pixel.ColorMode
	Layers        []Layer // bottom to top
	Palette       pixel.Palette
	ActiveLayerID string
}

// ValidSize reports whether w×h is an accepted canvas size.
func ValidSize(w, h int) bool {
	return w >= 1 && h >= 1 && w <= MaxSize && h <= MaxSize
}

// Clone returns a document with its own layer slice and palette. Buffers are
// shared.
func (d Document) Clone() Document {
	out := d
	out.Layers = make([]Layer, len(d.Layers))
	copy(out.Layers, d.Layers)
	out.Palette = d.Palette.Clone()
	return out
}

// LayerIndex returns the position of the layer with the given ID, or -1.
func (d Document) LayerIndex(id string) int {
	for i, l := range d.Layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// ActiveIndex returns the position of the active layer, or -1.
func (d Document) ActiveIndex() int {
	return d.LayerIndex(d.ActiveLayerID)
}

// Transparent returns the value that represents "no paint" in the document's
// current mode: 0x00000000 or the palette's transparent index.
func (d Document) Transparent() uint32 {
	if d.Mode == pixel.IndexedColor {
		return uint32(d.Palette.TransparentIndex)
	}
	return pixel.Transparent
}

// Validate checks the structural invariants of the document.
func (d Document) Validate() error {
	if !ValidSize(d.Width, d.Height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, d.Width, d.Height)
	}
	if len(d.Layers) == 0 {
		return errors.New("document has no layers")
	}
	if d.Mode == pixel.IndexedColor && !d.Palette.Valid(int(d.Palette.TransparentIndex)) {
		return fmt.Errorf("transparent index %d outside palette of %d colors", d.Palette.TransparentIndex, d.Palette.Len())
	}
	if d.Palette.Len() > pixel.MaxPaletteSize {
		return fmt.Errorf("palette has %d colors, max %d", d.Palette.Len(), pixel.MaxPaletteSize)
	}
	seen := make(map[string]bool, len(d.Layers))
	n := d.Width * d.Height
	for _, l := range d.Layers {
		if l.ID == "" || seen[l.ID] {
			return fmt.Errorf("duplicate or empty layer id %q", l.ID)
		}
		seen[l.ID] = true
		if l.Pixels == nil || l.Pixels.Mode() != d.Mode {
			return fmt.Errorf("layer %s does not match color mode %s", l.ID, d.Mode)
		}
		if l.Pixels.Len() != n {
			return fmt.Errorf("layer %s has %d pixels, want %d", l.ID, l.Pixels.Len(), n)
		}
	}
	if d.LayerIndex(d.ActiveLayerID) < 0 {
		return fmt.Errorf("active layer %q not found", d.ActiveLayerID)
	}
	return nil
}
