package paint

import (
	"fmt"
	"sort"
)

// Pattern is a square 0/1 tile that gates brush writes. A cell (x, y) of the
// canvas is writable iff Bits[(y mod Size)*Size + (x mod Size)] is non-zero.
type Pattern struct {
	Size int
	Bits []uint8
}

// NewPattern validates and copies a tile.
func NewPattern(size int, bits []uint8) (*Pattern, error) {
	if size < 1 || len(bits) != size*size {
		return nil, fmt.Errorf("pattern of size %d needs %d cells, got %d", size, size*size, len(bits))
	}
	b := make([]uint8, len(bits))
	copy(b, bits)
	return &Pattern{Size: size, Bits: b}, nil
}

// Allows reports whether the pattern lets a write through at (x, y). A nil
// pattern allows everything.
func (p *Pattern) Allows(x, y int) bool {
	if p == nil || p.Size < 1 {
		return true
	}
	px := x % p.Size
	py := y % p.Size
	if px < 0 {
		px += p.Size
	}
	if py < 0 {
		py += p.Size
	}
	return p.Bits[py*p.Size+px] != 0
}

var presets = map[string]*Pattern{
	"checker": {Size: 2, Bits: []uint8{1, 0, 0, 1}},
	"dots":    {Size: 2, Bits: []uint8{1, 0, 0, 0}},
	"lines-h": {Size: 2, Bits: []uint8{1, 1, 0, 0}},
	"lines-v": {Size: 2, Bits: []uint8{1, 0, 1, 0}},
	"sparse": {Size: 4, Bits: []uint8{
		1, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
	}},
}

// PatternPreset returns a named pattern. "solid" and "" return nil, which
// writes every cell.
func PatternPreset(name string) (*Pattern, error) {
	if name == "" || name == "solid" {
		return nil, nil
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern: %s", name)
	}
	return p, nil
}

// PatternNames lists the preset names, "solid" included.
func PatternNames() []string {
	names := []string{"solid"}
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names[1:])
	return names
}
