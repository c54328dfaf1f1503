package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/history"
	"github.com/ironsheep/pixel-tools-mcp/internal/palette"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// SetPaletteColor stores c in slot i. The transparent slot keeps alpha 0.
// Repeated edits of the same slot, as from dragging a color picker, coalesce
// into one history entry.
func (e *Editor) SetPaletteColor(i int, c uint32) bool {
	if e.floating != nil || !e.doc.Palette.Valid(i) {
		return false
	}
	if uint8(i) == e.doc.Palette.TransparentIndex {
		c &^= 0xFF
	}
	if e.doc.Palette.Colors[i] == c {
		return false
	}
	after := e.doc.Clone()
	after.Palette.Colors[i] = c
	return e.apply(e.doc, after, fmt.Sprintf("palette:%d", i))
}

// AddPaletteColor appends c to the palette and returns its index, or -1 if
// the palette is full.
func (e *Editor) AddPaletteColor(c uint32) int {
	if e.floating != nil || e.doc.Palette.Len() >= pixel.MaxPaletteSize {
		return -1
	}
	after := e.doc.Clone()
	after.Palette.Colors = append(after.Palette.Colors, c)
	e.apply(e.doc, after, "")
	return after.Palette.Len() - 1
}

// SetTransparentIndex designates slot i as transparent and clears its alpha.
func (e *Editor) SetTransparentIndex(i int) bool {
	if e.floating != nil || !e.doc.Palette.Valid(i) || uint8(i) == e.doc.Palette.TransparentIndex {
		return false
	}
	after := e.doc.Clone()
	after.Palette.TransparentIndex = uint8(i)
	after.Palette.Colors[i] &^= 0xFF
	return e.apply(e.doc, after, "")
}

// ApplyPalettePreset replaces the palette with a named preset and remaps
// every layer to the nearest new colors.
//
// It panics if the document is not Indexed or the preset does not exist;
// both indicate a caller bug rather than a user action.
func (e *Editor) ApplyPalettePreset(name string) bool {
	if e.doc.Mode != pixel.IndexedColor {
		panic(fmt.Sprintf("editor: palette preset %q applied in %s mode", name, e.doc.Mode))
	}
	pal, err := palette.Preset(name, e.cfg.TransparentSlot)
	if err != nil {
		panic(fmt.Sprintf("editor: %v", err))
	}
	if e.floating != nil {
		return false
	}
	after := e.doc.Clone()
	after.Palette = pal
	for i, l := range after.Layers {
		if out, ok := palette.Remap(l.Pixels.(pixel.Indexed), e.doc.Palette, pal); ok {
			after.Layers[i].Pixels = pixel.Indexed(out)
		}
	}
	if history.Diff(e.doc, after).Empty() {
		return false
	}
	e.log.Debug("palette preset applied", zap.String("preset", name))
	return e.apply(e.doc, after, "")
}

// SetColorMode converts the document to mode. Converting to Indexed builds
// a palette from the composite image.
func (e *Editor) SetColorMode(mode pixel.ColorMode) bool {
	if e.floating != nil {
		return false
	}
	after, ok := palette.Convert(e.doc, mode, e.cfg.TransparentSlot)
	if !ok {
		return false
	}
	e.log.Debug("color mode converted",
		zap.Stringer("from", e.doc.Mode),
		zap.Stringer("to", mode),
		zap.Int("palette", after.Palette.Len()))
	return e.apply(e.doc, after, "")
}
