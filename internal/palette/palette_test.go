package palette

import (
	"slices"
	"testing"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

const (
	red   uint32 = 0xFF0000FF
	green uint32 = 0x00FF00FF
	blue  uint32 = 0x0000FFFF
)

func TestGenerate(t *testing.T) {
	pix := []uint32{green, red, red, blue, 0, 0x12345600, green, red}

	tests := []struct {
		name string
		slot int
		want []uint32
	}{
		{"slot first", 0, []uint32{0, red, green, blue}},
		{"slot middle", 1, []uint32{red, 0, green, blue}},
		{"slot clamped", 99, []uint32{red, green, blue, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pal := Generate(pix, tt.slot)
			if !slices.Equal(pal.Colors, tt.want) {
				t.Errorf("colors: got %08X, want %08X", pal.Colors, tt.want)
			}
			if pal.Colors[pal.TransparentIndex] != 0 {
				t.Error("transparent slot misplaced")
			}
		})
	}
}

func TestGenerate_TiesKeepFirstOccurrence(t *testing.T) {
	pal := Generate([]uint32{blue, red, green}, 0)
	if !slices.Equal(pal.Colors, []uint32{0, blue, red, green}) {
		t.Errorf("got %08X", pal.Colors)
	}
}

func TestGenerate_CapsAt256(t *testing.T) {
	pix := make([]uint32, 300)
	for i := range pix {
		pix[i] = pixel.Pack(uint8(i), uint8(i>>8), 0, 0xFF)
	}
	pal := Generate(pix, 0)
	if pal.Len() != pixel.MaxPaletteSize {
		t.Errorf("got %d colors", pal.Len())
	}
}

func TestToIndexedToDirect(t *testing.T) {
	pal := pixel.NewPalette([]uint32{0, red, green}, 0)
	idx := ToIndexed([]uint32{red, 0xEE1100FF, 0x00FF0000, green}, pal)
	if !slices.Equal(idx, []uint8{1, 1, 0, 2}) {
		t.Errorf("indexed: got %v", idx)
	}
	back := ToDirect(idx, pal)
	if !slices.Equal(back, []uint32{red, red, 0, green}) {
		t.Errorf("direct: got %08X", back)
	}
}

func TestRemap(t *testing.T) {
	from := pixel.NewPalette([]uint32{0, red, green}, 0)
	to := pixel.NewPalette([]uint32{green, 0, red}, 1)
	out, changed := Remap([]uint8{0, 1, 2}, from, to)
	if !changed || !slices.Equal(out, []uint8{1, 2, 0}) {
		t.Errorf("got %v", out)
	}
	same := []uint8{1, 2}
	if _, changed := Remap(same, from, from); changed {
		t.Error("identity remap should not change")
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	doc := canvas.Document{
		Width: 2, Height: 2, Mode: pixel.DirectColor,
		Layers: []canvas.Layer{
			{ID: "a", Visible: true, Pixels: pixel.Direct{red, red, green, 0}},
		},
		ActiveLayerID: "a",
	}
	idx, changed := Convert(doc, pixel.IndexedColor, 0)
	if !changed || idx.Mode != pixel.IndexedColor {
		t.Fatal("expected conversion")
	}
	if err := idx.Validate(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(idx.Palette.Colors, []uint32{0, red, green}) {
		t.Errorf("palette: got %08X", idx.Palette.Colors)
	}
	if doc.Layers[0].Pixels.Mode() != pixel.DirectColor {
		t.Error("Convert modified its input")
	}

	back, _ := Convert(idx, pixel.DirectColor, 0)
	if !back.Layers[0].Pixels.Equal(doc.Layers[0].Pixels) {
		t.Errorf("round trip: got %v", back.Layers[0].Pixels)
	}

	if _, changed := Convert(doc, pixel.DirectColor, 0); changed {
		t.Error("same-mode conversion should be a no-op")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			pal, err := Preset(name, 0)
			if err != nil {
				t.Fatal(err)
			}
			if pal.TransparentIndex != 0 || pal.Colors[0] != 0 {
				t.Error("transparent slot should lead")
			}
			for i, c := range pal.Colors[1:] {
				if pixel.Alpha(c) != 0xFF {
					t.Errorf("slot %d not opaque: %08X", i+1, c)
				}
			}
		})
	}

	gb, _ := Preset("gameboy", 2)
	if gb.Len() != 5 || gb.TransparentIndex != 2 || gb.Colors[0] != 0x0F380FFF {
		t.Errorf("gameboy: %08X ti=%d", gb.Colors, gb.TransparentIndex)
	}
	if _, err := Preset("vga", 0); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#FF0000", 0xFF0000FF, false},
		{"00ff0080", 0x00FF0080, false},
		{"#1D2B53", 0x1D2B53FF, false},
		{"#FFF", 0, true},
		{"", 0, true},
		{"#GG0000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %08X, want %08X", got, tt.want)
			}
		})
	}
}
