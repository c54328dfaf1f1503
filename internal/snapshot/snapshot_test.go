package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

func directDoc() canvas.Document {
	return canvas.Document{
		Width: 3, Height: 2, Mode: pixel.DirectColor,
		Layers: []canvas.Layer{
			{ID: "bg", Visible: true, Pixels: pixel.Direct{0xFF0000FF, 0, 0x00FF0080, 1, 2, 3}},
			{ID: "fg", Visible: false, Locked: true, Pixels: pixel.Direct{0, 0, 0, 0, 0, 0xFFFFFFFF}},
		},
		Palette:       pixel.NewPalette(nil, 0),
		ActiveLayerID: "fg",
	}
}

func indexedDoc() canvas.Document {
	return canvas.Document{
		Width: 2, Height: 2, Mode: pixel.IndexedColor,
		Layers: []canvas.Layer{
			{ID: "a", Visible: true, Pixels: pixel.Indexed{0, 1, 2, 1}},
		},
		Palette:       pixel.NewPalette([]uint32{0xFF0000FF, 0, 0x00FF00FF}, 1),
		ActiveLayerID: "a",
	}
}

func assertSameDoc(t *testing.T, got, want canvas.Document) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height || got.Mode != want.Mode || got.ActiveLayerID != want.ActiveLayerID {
		t.Errorf("canvas fields: got %dx%d %s %s", got.Width, got.Height, got.Mode, got.ActiveLayerID)
	}
	if !got.Palette.Equal(want.Palette) {
		t.Errorf("palette: got %+v, want %+v", got.Palette, want.Palette)
	}
	if len(got.Layers) != len(want.Layers) {
		t.Fatalf("got %d layers, want %d", len(got.Layers), len(want.Layers))
	}
	for i := range want.Layers {
		g, w := got.Layers[i], want.Layers[i]
		if g.ID != w.ID || g.Visible != w.Visible || g.Locked != w.Locked {
			t.Errorf("layer %d flags: got %+v", i, g)
		}
		if !g.Pixels.Equal(w.Pixels) {
			t.Errorf("layer %d pixels: got %v, want %v", i, g.Pixels, w.Pixels)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  canvas.Document
	}{
		{"rgba", directDoc()},
		{"indexed", indexedDoc()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, tt.doc); err != nil {
				t.Fatal(err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatal(err)
			}
			assertSameDoc(t, got, tt.doc)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pxs")
	if err := Save(path, indexedDoc()); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	assertSameDoc(t, got, indexedDoc())
}

func TestDecode_Malformed(t *testing.T) {
	var good bytes.Buffer
	if err := Encode(&good, directDoc()); err != nil {
		t.Fatal(err)
	}
	data := good.Bytes()

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"wrong magic", []byte("PNG\x00\x00\x00\x00\x00\x00\x00")},
		{"truncated header", data[:len(magic)+6]},
		{"truncated payload", data[:len(data)-20]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.name != "truncated payload" && !errors.Is(err, ErrBadSnapshot) {
				t.Errorf("got %v, want ErrBadSnapshot", err)
			}
		})
	}
}

// rawSnapshot frames h the way Encode does, without a pixel payload.
func rawSnapshot(t *testing.T, h header) []byte {
	t.Helper()
	hdr, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	buf.WriteString(magic)
	binary.Write(&buf, binary.BigEndian, uint32(len(hdr)))
	buf.Write(hdr)
	return buf.Bytes()
}

func TestDecode_RejectsBadPalette(t *testing.T) {
	base := header{
		Version: version, Width: 1, Height: 1, Mode: "indexed",
		Palette:     []string{"#00000000", "#FF0000FF"},
		ActiveLayer: "a",
		Layers:      []layerHeader{{ID: "a", Visible: true}},
	}
	oversized := make([]string, pixel.MaxPaletteSize+1)
	for i := range oversized {
		oversized[i] = "#000000FF"
	}

	tests := []struct {
		name   string
		modify func(h *header)
	}{
		{"transparent index past end", func(h *header) { h.TransparentIndex = 5 }},
		{"negative transparent index", func(h *header) { h.TransparentIndex = -1 }},
		{"too many colors", func(h *header) { h.Palette = oversized }},
		{"index into empty palette", func(h *header) { h.Palette = nil; h.TransparentIndex = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base
			tt.modify(&h)
			_, err := Decode(bytes.NewReader(rawSnapshot(t, h)))
			if !errors.Is(err, ErrBadSnapshot) {
				t.Errorf("got %v, want ErrBadSnapshot", err)
			}
		})
	}
}

func TestEncode_RejectsInvalid(t *testing.T) {
	doc := directDoc()
	doc.ActiveLayerID = "missing"
	if err := Encode(&bytes.Buffer{}, doc); err == nil {
		t.Error("expected validation error")
	}
}
