package pixel

import "slices"

// Pixels is a layer buffer in one of the two representations. The set of
// implementations is closed: Direct and Indexed.
type Pixels interface {
	Mode() ColorMode
	Len() int
	Clone() Pixels
	Equal(other Pixels) bool
	isPixels()
}

// Direct is a buffer of packed RGBA values.
type Direct []uint32

// Indexed is a buffer of palette indices.
type Indexed []uint8

func (Direct) isPixels()  {}
func (Indexed) isPixels() {}

// Mode returns DirectColor.
func (Direct) Mode() ColorMode { return DirectColor }

// Mode returns IndexedColor.
func (Indexed) Mode() ColorMode { return IndexedColor }

// Len returns the number of pixels.
func (d Direct) Len() int { return len(d) }

// Len returns the number of pixels.
func (x Indexed) Len() int { return len(x) }

// Clone returns a copy backed by a new array.
func (d Direct) Clone() Pixels { return slices.Clone(d) }

// Clone returns a copy backed by a new array.
func (x Indexed) Clone() Pixels { return slices.Clone(x) }

// Equal compares contents; buffers of different representations never match.
func (d Direct) Equal(other Pixels) bool {
	o, ok := other.(Direct)
	return ok && slices.Equal(d, o)
}

// Equal compares contents; buffers of different representations never match.
func (x Indexed) Equal(other Pixels) bool {
	o, ok := other.(Indexed)
	return ok && slices.Equal(x, o)
}

// NewPixels allocates a buffer of n pixels for mode. Direct buffers start
// transparent; Indexed buffers are filled with fill.
func NewPixels(mode ColorMode, n int, fill uint8) Pixels {
	if mode == IndexedColor {
		buf := make(Indexed, n)
		if fill != 0 {
			for i := range buf {
				buf[i] = fill
			}
		}
		return buf
	}
	return make(Direct, n)
}

// Same reports whether a and b share the same backing array and length, which
// is how copy-on-write buffers signal "unchanged".
func Same(a, b Pixels) bool {
	switch x := a.(type) {
	case Direct:
		y, ok := b.(Direct)
		return ok && len(x) == len(y) && (len(x) == 0 || &x[0] == &y[0])
	case Indexed:
		y, ok := b.(Indexed)
		return ok && len(x) == len(y) && (len(x) == 0 || &x[0] == &y[0])
	}
	return false
}
