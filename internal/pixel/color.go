package pixel

import "fmt"

// Transparent is the packed fully transparent color.
const Transparent uint32 = 0x00000000

// ColorMode selects the pixel representation of a canvas.
type ColorMode int

const (
	// DirectColor stores packed RGBA values.
	DirectColor ColorMode = iota
	// IndexedColor stores palette indices.
	IndexedColor
)

// String returns the mode name used in snapshots and tool arguments.
func (m ColorMode) String() string {
	switch m {
	case DirectColor:
		return "rgba"
	case IndexedColor:
		return "indexed"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// ParseColorMode parses the names produced by ColorMode.String.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "rgba", "direct", "":
		return DirectColor, nil
	case "indexed", "index":
		return IndexedColor, nil
	default:
		return 0, fmt.Errorf("unknown color mode: %s", s)
	}
}

// Value is the constraint satisfied by both pixel representations.
type Value interface {
	~uint32 | ~uint8
}

// Pack combines 8-bit components into a packed RGBA value.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// Unpack splits a packed RGBA value into its components.
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Alpha returns the alpha component of a packed color.
func Alpha(c uint32) uint8 {
	return uint8(c)
}

// Hex formats a packed color as "#RRGGBBAA".
func Hex(c uint32) string {
	return fmt.Sprintf("#%08X", c)
}
