package paint

import (
	"testing"
)

const red uint32 = 0xFF0000FF

// newTarget creates a blank w×h RGBA target.
func newTarget(w, h int) Target[uint32] {
	return Target[uint32]{Pix: make([]uint32, w*h), Width: w, Height: h}
}

// setCells returns the coordinates of every non-zero pixel.
func setCells[T uint32 | uint8](pix []T, w int) map[[2]int]bool {
	cells := make(map[[2]int]bool)
	for i, c := range pix {
		if c != 0 {
			cells[[2]int{i % w, i / w}] = true
		}
	}
	return cells
}

func TestStamp_Scenario3x3(t *testing.T) {
	tg := newTarget(8, 8)
	out, changed := Stamp(tg, 4, 4, Brush{Size: 3}, red)
	if !changed {
		t.Fatal("Stamp reported no change")
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint32(0)
			if x >= 3 && x <= 5 && y >= 3 && y <= 5 {
				want = red
			}
			if got := out[y*8+x]; got != want {
				t.Errorf("(%d,%d): got %08X, want %08X", x, y, got, want)
			}
		}
	}
	for _, c := range tg.Pix {
		if c != 0 {
			t.Fatal("Stamp modified its input buffer")
		}
	}
}

func TestStamp_EvenSizeAnchorsUpLeft(t *testing.T) {
	out, _ := Stamp(newTarget(8, 8), 4, 4, Brush{Size: 2}, red)
	cells := setCells(out, 8)
	for _, c := range [][2]int{{3, 3}, {4, 3}, {3, 4}, {4, 4}} {
		if !cells[c] {
			t.Errorf("missing cell %v", c)
		}
	}
	if len(cells) != 4 {
		t.Errorf("got %d cells, want 4", len(cells))
	}
}

func TestStamp_IdempotentReturnsSameBuffer(t *testing.T) {
	first, changed := Stamp(newTarget(8, 8), 2, 2, Brush{Size: 2}, red)
	if !changed {
		t.Fatal("first stamp should change")
	}
	second, changed := Stamp(Target[uint32]{Pix: first, Width: 8, Height: 8}, 2, 2, Brush{Size: 2}, red)
	if changed {
		t.Error("second identical stamp should not change")
	}
	if &second[0] != &first[0] {
		t.Error("second stamp should return the same buffer")
	}
}

func TestStamp_ClipsAndMasks(t *testing.T) {
	tg := newTarget(4, 4)
	tg.Mask = make([]uint8, 16)
	tg.Mask[0] = 1 // only (0,0) selectable
	out, changed := Stamp(tg, 0, 0, Brush{Size: 3}, red)
	if !changed {
		t.Fatal("expected change")
	}
	cells := setCells(out, 4)
	if len(cells) != 1 || !cells[[2]int{0, 0}] {
		t.Errorf("got cells %v, want only (0,0)", cells)
	}

	out, changed = Stamp(tg, 3, 3, Brush{Size: 1}, red)
	if changed || &out[0] != &tg.Pix[0] {
		t.Error("masked-out stamp should be a no-op")
	}
}

func TestStamp_Pattern(t *testing.T) {
	checker, err := PatternPreset("checker")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := Stamp(newTarget(4, 4), 2, 2, Brush{Size: 4, Pattern: checker}, red)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := (x+y)%2 == 0
			if got := out[y*4+x] != 0; got != want {
				t.Errorf("(%d,%d): painted=%v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPattern_NegativeCoordinates(t *testing.T) {
	p, err := NewPattern(2, []uint8{1, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Allows(-2, -2) || p.Allows(-1, -2) {
		t.Error("pattern should wrap negative coordinates")
	}
	if _, err := NewPattern(3, []uint8{1}); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := PatternPreset("zigzag"); err == nil {
		t.Error("expected unknown pattern error")
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 1, 2, 4, 2, [][2]int{{1, 2}, {2, 2}, {3, 2}, {4, 2}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"reversed", 3, 0, 0, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"shallow", 0, 0, 4, 2, [][2]int{{0, 0}, {1, 1}, {2, 1}, {3, 2}, {4, 2}}},
		{"point", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := Line(newTarget(6, 6), tt.x0, tt.y0, tt.x1, tt.y1, Brush{Size: 1}, red)
			cells := setCells(out, 6)
			if len(cells) != len(tt.want) {
				t.Errorf("got %d cells %v, want %d", len(cells), cells, len(tt.want))
			}
			for _, c := range tt.want {
				if !cells[c] {
					t.Errorf("missing %v", c)
				}
			}
		})
	}
}

func TestStamp_HugeBrushCoversCanvas(t *testing.T) {
	out, changed := Stamp(newTarget(8, 8), 4, 4, Brush{Size: 20000}, red)
	if !changed {
		t.Fatal("expected change")
	}
	if n := len(setCells(out, 8)); n != 64 {
		t.Errorf("got %d cells, want 64", n)
	}
}

func TestLine_FarEndpointsMatchNearLine(t *testing.T) {
	tests := []struct {
		name      string
		far, near [4]int
	}{
		{"shallow", [4]int{0, 0, 200000000, 100000000}, [4]int{0, 0, 8, 4}},
		{"reversed", [4]int{200000000, 100000000, 0, 0}, [4]int{8, 4, 0, 0}},
		{"horizontal through", [4]int{-100000000, 3, 100000000, 3}, [4]int{0, 3, 7, 3}},
		{"vertical through", [4]int{2, 100000000, 2, -100000000}, [4]int{2, 0, 2, 7}},
		{"steep", [4]int{1, 0, 100000001, 200000000}, [4]int{1, 0, 5, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			far, _ := Line(newTarget(8, 8), tt.far[0], tt.far[1], tt.far[2], tt.far[3], Brush{Size: 1}, red)
			near, _ := Line(newTarget(8, 8), tt.near[0], tt.near[1], tt.near[2], tt.near[3], Brush{Size: 1}, red)
			for i := range near {
				if far[i] != near[i] {
					t.Errorf("(%d,%d): far line %08X, near line %08X", i%8, i/8, far[i], near[i])
				}
			}
		})
	}
}

func TestLine_OffCanvasBrushReachesIn(t *testing.T) {
	// The line runs along y=-1; a 3-wide brush still paints row 0.
	out, changed := Line(newTarget(4, 4), -50, -1, 50, -1, Brush{Size: 3}, red)
	if !changed {
		t.Fatal("expected change")
	}
	cells := setCells(out, 4)
	if len(cells) != 4 {
		t.Errorf("got cells %v, want row 0", cells)
	}
	for x := 0; x < 4; x++ {
		if !cells[[2]int{x, 0}] {
			t.Errorf("missing (%d,0)", x)
		}
	}
}

func TestRect(t *testing.T) {
	out, _ := Rect(newTarget(6, 6), 4, 4, 1, 1, false, nil, red)
	cells := setCells(out, 6)
	if len(cells) != 12 {
		t.Errorf("outline: got %d cells, want 12", len(cells))
	}
	if cells[[2]int{2, 2}] {
		t.Error("outline should not fill interior")
	}

	out, _ = Rect(newTarget(6, 6), 1, 1, 4, 4, true, nil, red)
	if n := len(setCells(out, 6)); n != 16 {
		t.Errorf("filled: got %d cells, want 16", n)
	}
}

func TestRect_ClippedOutlineKeepsOffscreenEdgesOff(t *testing.T) {
	out, _ := Rect(newTarget(4, 4), -3, 1, 2, 2, false, nil, red)
	cells := setCells(out, 4)
	want := [][2]int{{0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	if len(cells) != len(want) {
		t.Errorf("got %v", cells)
	}
	for _, c := range want {
		if !cells[c] {
			t.Errorf("missing %v", c)
		}
	}
}

func TestEllipse_Circle(t *testing.T) {
	out, _ := Ellipse(newTarget(5, 5), 0, 0, 4, 4, false, nil, red)
	cells := setCells(out, 5)
	want := [][2]int{
		{1, 0}, {2, 0}, {3, 0},
		{0, 1}, {4, 1},
		{0, 2}, {4, 2},
		{0, 3}, {4, 3},
		{1, 4}, {2, 4}, {3, 4},
	}
	if len(cells) != len(want) {
		t.Errorf("got %d cells %v, want %d", len(cells), cells, len(want))
	}
	for _, c := range want {
		if !cells[c] {
			t.Errorf("missing %v", c)
		}
	}
}

func TestEllipse_SymmetricUnder180Rotation(t *testing.T) {
	boxes := [][4]int{
		{0, 0, 9, 5},
		{1, 2, 12, 13},
		{0, 0, 3, 10},
		{2, 1, 14, 4},
		{5, 5, 5, 12},
		{0, 7, 15, 7},
	}
	for _, filled := range []bool{false, true} {
		for _, bx := range boxes {
			const w, h = 16, 16
			out, changed := Ellipse(newTarget(w, h), bx[0], bx[1], bx[2], bx[3], filled, nil, red)
			if !changed {
				t.Fatalf("box %v: nothing drawn", bx)
			}
			sx, sy := bx[0]+bx[2], bx[1]+bx[3]
			for c := range setCells(out, w) {
				mx, my := sx-c[0], sy-c[1]
				if out[my*w+mx] == 0 {
					t.Errorf("box %v filled=%v: (%d,%d) set but mirror (%d,%d) not", bx, filled, c[0], c[1], mx, my)
				}
			}
		}
	}
}

func TestEllipse_StaysInsideBox(t *testing.T) {
	out, _ := Ellipse(newTarget(20, 20), 2, 3, 17, 9, false, nil, red)
	for c := range setCells(out, 20) {
		if c[0] < 2 || c[0] > 17 || c[1] < 3 || c[1] > 9 {
			t.Errorf("cell %v outside box", c)
		}
	}
	cells := setCells(out, 20)
	for _, c := range [][2]int{{2, 6}, {17, 6}} {
		if !cells[c] {
			t.Errorf("extreme point %v missing", c)
		}
	}
}

func TestEllipse_HalfAxes(t *testing.T) {
	for _, filled := range []bool{false, true} {
		out, _ := Ellipse(newTarget(12, 12), 2, 0, 5, 10, filled, nil, red)
		cells := setCells(out, 12)
		for c := range cells {
			if c[0] < 2 || c[0] > 5 || c[1] < 0 || c[1] > 10 {
				t.Errorf("filled=%v: cell %v outside box", filled, c)
			}
		}
		for _, c := range [][2]int{{3, 0}, {4, 0}, {2, 5}, {5, 5}, {3, 10}, {4, 10}} {
			if !cells[c] {
				t.Errorf("filled=%v: extreme point %v missing", filled, c)
			}
		}
	}
}

func TestEllipse_OffCanvasIsNoop(t *testing.T) {
	tg := newTarget(8, 8)
	out, changed := Ellipse(tg, 100, 100, 200000000, 200000000, false, nil, red)
	if changed || &out[0] != &tg.Pix[0] {
		t.Error("ellipse outside the canvas should not change the buffer")
	}
}

func TestFill_Contiguous(t *testing.T) {
	// 5x5 with a vertical wall at x=2
	tg := newTarget(5, 5)
	for y := 0; y < 5; y++ {
		tg.Pix[y*5+2] = 0x000000FF
	}
	out, changed := Fill(tg, 0, 0, red, true)
	if !changed {
		t.Fatal("fill should change")
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			got := out[y*5+x]
			switch {
			case x < 2 && got != red:
				t.Errorf("(%d,%d) should be filled", x, y)
			case x > 2 && got != 0:
				t.Errorf("(%d,%d) should be untouched", x, y)
			}
		}
	}
}

func TestFill_GlobalIgnoresConnectivity(t *testing.T) {
	tg := newTarget(5, 1)
	tg.Pix[2] = 0x000000FF
	out, _ := Fill(tg, 0, 0, red, false)
	if out[4] != red || out[2] != 0x000000FF {
		t.Errorf("got %v", out)
	}
}

func TestFill_MaskBoundsFlood(t *testing.T) {
	tg := newTarget(4, 1)
	tg.Mask = []uint8{1, 1, 0, 1}
	out, _ := Fill(tg, 0, 0, red, true)
	if out[0] != red || out[1] != red || out[2] != 0 || out[3] != 0 {
		t.Errorf("got %v", out)
	}
}

func TestFill_NoOps(t *testing.T) {
	tg := newTarget(3, 3)
	tests := []struct {
		name string
		t    Target[uint32]
		x, y int
		v    uint32
	}{
		{"seed equals fill", tg, 1, 1, 0},
		{"out of bounds", tg, 3, 0, red},
		{"seed masked", Target[uint32]{Pix: tg.Pix, Width: 3, Height: 3, Mask: make([]uint8, 9)}, 1, 1, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, contiguous := range []bool{true, false} {
				out, changed := Fill(tt.t, tt.x, tt.y, tt.v, contiguous)
				if changed || &out[0] != &tg.Pix[0] {
					t.Errorf("contiguous=%v: expected original buffer", contiguous)
				}
			}
		})
	}
}

func TestIndexedTarget(t *testing.T) {
	tg := Target[uint8]{Pix: make([]uint8, 9), Width: 3, Height: 3}
	out, changed := Rect(tg, 0, 0, 2, 2, true, nil, uint8(4))
	if !changed {
		t.Fatal("expected change")
	}
	for i, v := range out {
		if v != 4 {
			t.Errorf("pixel %d: got %d, want 4", i, v)
		}
	}
}

func TestPatternNames(t *testing.T) {
	names := PatternNames()
	if names[0] != "solid" {
		t.Errorf("first name: got %s", names[0])
	}
	for _, n := range names {
		if _, err := PatternPreset(n); err != nil {
			t.Errorf("preset %s: %v", n, err)
		}
	}
}
