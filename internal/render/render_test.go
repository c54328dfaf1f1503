package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func checker(w, h int) []uint32 {
	pix := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				pix[y*w+x] = 0xFF0000FF
			} else {
				pix[y*w+x] = 0x0000FF80
			}
		}
	}
	return pix
}

func TestNRGBA_RoundTrip(t *testing.T) {
	pix := checker(3, 2)
	img := NRGBA(pix, 3, 2)
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{0, 0, 0xFF, 0x80}) {
		t.Errorf("pixel (1,0): got %v", got)
	}
	back, w, h := FromImage(img)
	if w != 3 || h != 2 {
		t.Fatalf("size %dx%d", w, h)
	}
	for i := range pix {
		if back[i] != pix[i] {
			t.Errorf("pixel %d: got %08X, want %08X", i, back[i], pix[i])
		}
	}
}

func TestScale(t *testing.T) {
	img := NRGBA(checker(2, 2), 2, 2)
	big, err := Scale(img, 3)
	if err != nil {
		t.Fatal(err)
	}
	if big.Bounds().Dx() != 6 || big.Bounds().Dy() != 6 {
		t.Fatalf("bounds %v", big.Bounds())
	}
	// Nearest neighbour keeps hard edges.
	if big.NRGBAAt(2, 2) != img.NRGBAAt(0, 0) || big.NRGBAAt(3, 2) != img.NRGBAAt(1, 0) {
		t.Error("scaled pixels should replicate source pixels")
	}
	if _, err := Scale(img, 0); err == nil {
		t.Error("expected error for factor 0")
	}
}

func TestThumbnail(t *testing.T) {
	img := NRGBA(checker(4, 2), 4, 2)
	tests := []struct {
		name       string
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{"upscale whole factor", 10, 10, 8, 4},
		{"downscale fit", 2, 2, 2, 1},
		{"exact", 4, 2, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := Thumbnail(img, tt.maxW, tt.maxH)
			if err != nil {
				t.Fatal(err)
			}
			if th.Bounds().Dx() != tt.wantW || th.Bounds().Dy() != tt.wantH {
				t.Errorf("got %v", th.Bounds())
			}
		})
	}
}

func TestCrop(t *testing.T) {
	img := NRGBA(checker(4, 4), 4, 4)
	c, err := Crop(img, image.Rect(1, 1, 3, 3))
	if err != nil {
		t.Fatal(err)
	}
	if c.Bounds().Dx() != 2 || c.NRGBAAt(0, 0) != img.NRGBAAt(1, 1) {
		t.Error("crop content mismatch")
	}
	if _, err := Crop(img, image.Rect(2, 2, 5, 5)); err == nil {
		t.Error("expected out of bounds error")
	}
}

func TestEncodePNG(t *testing.T) {
	res, err := EncodePNG(NRGBA(checker(3, 3), 3, 3))
	if err != nil {
		t.Fatal(err)
	}
	if res.MimeType != "image/png" || res.Width != 3 || res.Height != 3 {
		t.Errorf("got %+v", res)
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("decoded bounds %v", img.Bounds())
	}
}

func TestSaveOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := NRGBA(checker(5, 4), 5, 4)
	if err := SavePNG(path, src); err != nil {
		t.Fatal(err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	pix, w, h := FromImage(img)
	if w != 5 || h != 4 || pix[1] != 0x0000FF80 {
		t.Errorf("reopened %dx%d first odd pixel %08X", w, h, pix[1])
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGrid(t *testing.T) {
	big, err := Scale(NRGBA(checker(4, 4), 4, 4), 8)
	if err != nil {
		t.Fatal(err)
	}

	g, err := Grid(big, GridOptions{Cell: 8, Color: 0x00FF00FF})
	if err != nil {
		t.Fatal(err)
	}
	green := color.NRGBA{0, 0xFF, 0, 0xFF}
	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"vertical line", 8, 3, green},
		{"horizontal line", 3, 16, green},
		{"cell interior", 3, 3, big.NRGBAAt(3, 3)},
		{"left edge has no line", 0, 3, big.NRGBAAt(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	labelled, err := Grid(big, GridOptions{Cell: 8, Color: 0x00FF00FF, LabelEvery: 2})
	if err != nil {
		t.Fatal(err)
	}
	// The label "2,2" starts at (18, 18); the top row of a 2 is solid.
	if got := labelled.NRGBAAt(18, 18); got != (color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("label pixel: got %v", got)
	}

	if _, err := Grid(big, GridOptions{Cell: 1}); err == nil {
		t.Error("expected error for cell size 1")
	}
}
