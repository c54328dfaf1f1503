// Package snapshot serializes documents.
//
// A snapshot is a magic line, a length-prefixed JSON header describing the
// canvas, palette and layer stack, and a zstd-compressed payload holding the
// layer buffers bottom to top. RGBA buffers are stored as big-endian packed
// values (so the bytes read R, G, B, A); indexed buffers as raw indices.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

const (
	magic         = "PIXSNAP1\n"
	version       = 1
	maxHeaderSize = 1 << 20
)

// ErrBadSnapshot is returned for data that is not a well-formed snapshot.
var ErrBadSnapshot = errors.New("malformed snapshot")

type header struct {
	Version          int           `json:"version"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	Mode             string        `json:"mode"`
	Palette          []string      `json:"palette"`
	TransparentIndex int           `json:"transparent_index"`
	ActiveLayer      string        `json:"active_layer"`
	Layers           []layerHeader `json:"layers"`
}

type layerHeader struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Encode writes doc to w.
func Encode(w io.Writer, doc canvas.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	h := header{
		Version:          version,
		Width:            doc.Width,
		Height:           doc.Height,
		Mode:             doc.Mode.String(),
		TransparentIndex: int(doc.Palette.TransparentIndex),
		ActiveLayer:      doc.ActiveLayerID,
	}
	for _, c := range doc.Palette.Colors {
		h.Palette = append(h.Palette, pixel.Hex(c))
	}
	for _, l := range doc.Layers {
		h.Layers = append(h.Layers, layerHeader{ID: l.ID, Visible: l.Visible, Locked: l.Locked})
	}
	hdr, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode snapshot header: %w", err)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(hdr))); err != nil {
		return err
	}
	if _, err := bw.Write(hdr); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(bw)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	for _, l := range doc.Layers {
		switch px := l.Pixels.(type) {
		case pixel.Direct:
			err = binary.Write(enc, binary.BigEndian, []uint32(px))
		case pixel.Indexed:
			_, err = enc.Write(px)
		}
		if err != nil {
			enc.Close()
			return fmt.Errorf("compress layer %s: %w", l.ID, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish zstd stream: %w", err)
	}
	return bw.Flush()
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (canvas.Document, error) {
	br := bufio.NewReader(r)
	m := make([]byte, len(magic))
	if _, err := io.ReadFull(br, m); err != nil || string(m) != magic {
		return canvas.Document{}, fmt.Errorf("%w: missing magic", ErrBadSnapshot)
	}
	var n uint32
	if err := binary.Read(br, binary.BigEndian, &n); err != nil || n > maxHeaderSize {
		return canvas.Document{}, fmt.Errorf("%w: bad header length", ErrBadSnapshot)
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(br, raw); err != nil {
		return canvas.Document{}, fmt.Errorf("%w: truncated header", ErrBadSnapshot)
	}
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return canvas.Document{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if h.Version != version {
		return canvas.Document{}, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, h.Version)
	}
	if !canvas.ValidSize(h.Width, h.Height) {
		return canvas.Document{}, fmt.Errorf("%w: %w", ErrBadSnapshot, canvas.ErrInvalidSize)
	}
	mode, err := pixel.ParseColorMode(h.Mode)
	if err != nil {
		return canvas.Document{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}

	if len(h.Palette) > pixel.MaxPaletteSize {
		return canvas.Document{}, fmt.Errorf("%w: palette has %d entries, max %d", ErrBadSnapshot, len(h.Palette), pixel.MaxPaletteSize)
	}
	if h.TransparentIndex < 0 || h.TransparentIndex >= max(len(h.Palette), 1) {
		return canvas.Document{}, fmt.Errorf("%w: transparent index %d outside palette of %d", ErrBadSnapshot, h.TransparentIndex, len(h.Palette))
	}

	colors := make([]uint32, len(h.Palette))
	for i, s := range h.Palette {
		if _, err := fmt.Sscanf(s, "#%08X", &colors[i]); err != nil {
			return canvas.Document{}, fmt.Errorf("%w: palette entry %q", ErrBadSnapshot, s)
		}
	}
	doc := canvas.Document{
		Width:         h.Width,
		Height:        h.Height,
		Mode:          mode,
		Palette:       pixel.NewPalette(colors, h.TransparentIndex),
		ActiveLayerID: h.ActiveLayer,
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return canvas.Document{}, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	size := h.Width * h.Height
	for _, lh := range h.Layers {
		l := canvas.Layer{ID: lh.ID, Visible: lh.Visible, Locked: lh.Locked}
		if mode == pixel.IndexedColor {
			buf := make(pixel.Indexed, size)
			if _, err := io.ReadFull(dec, buf); err != nil {
				return canvas.Document{}, fmt.Errorf("%w: layer %s: %v", ErrBadSnapshot, lh.ID, err)
			}
			l.Pixels = buf
		} else {
			buf := make([]uint32, size)
			if err := binary.Read(dec, binary.BigEndian, buf); err != nil {
				return canvas.Document{}, fmt.Errorf("%w: layer %s: %v", ErrBadSnapshot, lh.ID, err)
			}
			l.Pixels = pixel.Direct(buf)
		}
		doc.Layers = append(doc.Layers, l)
	}

	if err := doc.Validate(); err != nil {
		return canvas.Document{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return doc, nil
}

// Save writes doc to a file.
func Save(path string, doc canvas.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a document from a file.
func Load(path string) (canvas.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return canvas.Document{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
