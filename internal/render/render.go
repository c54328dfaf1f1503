// Package render converts composited pixel buffers to and from standard
// library images and produces the PNG payloads returned to clients.
//
// Pixel art must stay crisp, so every resampling step here uses
// nearest-neighbour filtering.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// MaxScale bounds the integer upscale factor accepted by Scale.
const MaxScale = 32

// Result is an encoded image ready to be returned to a client.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// NRGBA wraps a packed RGBA buffer as an image. The byte layout of a packed
// value matches NRGBA, so this is a straight copy.
func NRGBA(pix []uint32, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range pix {
		r, g, b, a := pixel.Unpack(c)
		o := i * 4
		img.Pix[o] = r
		img.Pix[o+1] = g
		img.Pix[o+2] = b
		img.Pix[o+3] = a
	}
	return img
}

// FromImage flattens any image into a packed RGBA buffer.
func FromImage(img image.Image) (pix []uint32, w, h int) {
	n := imaging.Clone(img)
	w, h = n.Bounds().Dx(), n.Bounds().Dy()
	pix = make([]uint32, w*h)
	for i := range pix {
		o := i * 4
		pix[i] = pixel.Pack(n.Pix[o], n.Pix[o+1], n.Pix[o+2], n.Pix[o+3])
	}
	return pix, w, h
}

// Scale enlarges img by an integer factor.
func Scale(img image.Image, factor int) (*image.NRGBA, error) {
	if factor < 1 || factor > MaxScale {
		return nil, fmt.Errorf("scale factor %d out of range 1..%d", factor, MaxScale)
	}
	b := img.Bounds()
	return imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.NearestNeighbor), nil
}

// Thumbnail shrinks or grows img to fit within maxW×maxH, keeping the
// aspect ratio.
func Thumbnail(img image.Image, maxW, maxH int) (*image.NRGBA, error) {
	if maxW < 1 || maxH < 1 {
		return nil, fmt.Errorf("invalid thumbnail size %dx%d", maxW, maxH)
	}
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		// Fit never enlarges; scale up by the largest whole factor instead.
		f := min(maxW/b.Dx(), maxH/b.Dy())
		return imaging.Resize(img, b.Dx()*f, b.Dy()*f, imaging.NearestNeighbor), nil
	}
	return imaging.Fit(img, maxW, maxH, imaging.NearestNeighbor), nil
}

// Crop extracts a region of img.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	if !r.In(img.Bounds()) || r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, img.Bounds())
	}
	return imaging.Crop(img, r), nil
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*Result, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &Result{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Open decodes an image file (PNG, JPEG, GIF, BMP or TIFF).
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}
