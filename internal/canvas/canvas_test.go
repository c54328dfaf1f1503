package canvas

import (
	"errors"
	"testing"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

func validDocument() Document {
	return Document{
		Width:  4,
		Height: 2,
		Mode:   pixel.DirectColor,
		Layers: []Layer{
			{ID: "a", Visible: true, Pixels: make(pixel.Direct, 8)},
			{ID: "b", Visible: true, Pixels: make(pixel.Direct, 8)},
		},
		Palette:       pixel.NewPalette(nil, 0),
		ActiveLayerID: "b",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Document)
		wantErr bool
	}{
		{"valid", func(d *Document) {}, false},
		{"zero width", func(d *Document) { d.Width = 0 }, true},
		{"too tall", func(d *Document) { d.Height = MaxSize + 1 }, true},
		{"no layers", func(d *Document) { d.Layers = nil }, true},
		{"duplicate id", func(d *Document) { d.Layers[1].ID = "a" }, true},
		{"wrong mode", func(d *Document) { d.Layers[0].Pixels = make(pixel.Indexed, 8) }, true},
		{"short buffer", func(d *Document) { d.Layers[0].Pixels = make(pixel.Direct, 3) }, true},
		{"missing active", func(d *Document) { d.ActiveLayerID = "zz" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDocument()
			tt.mutate(&d)
			err := d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_SizeSentinel(t *testing.T) {
	d := validDocument()
	d.Width = -1
	if err := d.Validate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("got %v, want ErrInvalidSize", err)
	}
}

func TestClone_IndependentLayerList(t *testing.T) {
	d := validDocument()
	c := d.Clone()
	c.Layers[0].Visible = false
	if !d.Layers[0].Visible {
		t.Error("Clone shares the layer slice")
	}
	if d.LayerIndex("b") != 1 || d.ActiveIndex() != 1 {
		t.Error("LayerIndex/ActiveIndex wrong")
	}
}

func TestTransparent(t *testing.T) {
	d := validDocument()
	if d.Transparent() != 0 {
		t.Errorf("direct transparent: got %d", d.Transparent())
	}
	d.Mode = pixel.IndexedColor
	d.Palette = pixel.NewPalette([]uint32{0xFF, 0, 0xFFFFFFFF}, 1)
	if d.Transparent() != 1 {
		t.Errorf("indexed transparent: got %d", d.Transparent())
	}
}
