package pixel

// MaxPaletteSize is the number of slots addressable by an 8-bit index.
const MaxPaletteSize = 256

// Palette is the color table of an Indexed canvas.
//
// TransparentIndex designates the slot treated as fully transparent regardless
// of its stored alpha. It is always a valid index into Colors.
type Palette struct {
	Colors           []uint32
	TransparentIndex uint8
}

// NewPalette builds a palette from colors, forcing the transparent slot to
// alpha 0. An empty color list yields a single transparent slot.
func NewPalette(colors []uint32, transparentIndex int) Palette {
	if len(colors) > MaxPaletteSize {
		colors = colors[:MaxPaletteSize]
	}
	out := make([]uint32, len(colors))
	copy(out, colors)
	if len(out) == 0 {
		out = append(out, Transparent)
	}
	if transparentIndex < 0 || transparentIndex >= len(out) {
		transparentIndex = 0
	}
	out[transparentIndex] &^= 0xFF
	return Palette{Colors: out, TransparentIndex: uint8(transparentIndex)}
}

// Len returns the number of slots.
func (p Palette) Len() int { return len(p.Colors) }

// Valid reports whether i addresses a slot.
func (p Palette) Valid(i int) bool { return i >= 0 && i < len(p.Colors) }

// Color returns the color rendered for index i. The transparent slot and
// out-of-range indices render as Transparent.
func (p Palette) Color(i uint8) uint32 {
	if i == p.TransparentIndex || int(i) >= len(p.Colors) {
		return Transparent
	}
	return p.Colors[i]
}

// Clone returns a deep copy.
func (p Palette) Clone() Palette {
	c := make([]uint32, len(p.Colors))
	copy(c, p.Colors)
	return Palette{Colors: c, TransparentIndex: p.TransparentIndex}
}

// Equal reports whether both palettes hold the same slots and transparent index.
func (p Palette) Equal(q Palette) bool {
	if p.TransparentIndex != q.TransparentIndex || len(p.Colors) != len(q.Colors) {
		return false
	}
	for i := range p.Colors {
		if p.Colors[i] != q.Colors[i] {
			return false
		}
	}
	return true
}

// NearestIndex returns the palette slot closest to c.
//
// Distance is the squared Euclidean distance over R, G and B; alpha does not
// participate. The transparent slot is never a candidate, except that a fully
// transparent input (the erase color) maps straight to TransparentIndex. Ties
// resolve to the lowest index.
func NearestIndex(p Palette, c uint32) uint8 {
	r, g, b, a := Unpack(c)
	if a == 0 {
		return p.TransparentIndex
	}
	best := p.TransparentIndex
	bestDist := -1
	for i, pc := range p.Colors {
		if uint8(i) == p.TransparentIndex {
			continue
		}
		pr, pg, pb, _ := Unpack(pc)
		dr := int(r) - int(pr)
		dg := int(g) - int(pg)
		db := int(b) - int(pb)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best = uint8(i)
			bestDist = d
			if d == 0 {
				break
			}
		}
	}
	return best
}
