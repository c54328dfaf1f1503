package paint

import "github.com/ironsheep/pixel-tools-mcp/internal/pixel"

// Fill replaces the region matching the seed pixel with v.
//
// In contiguous mode the region is the 4-connected component of pixels equal
// to the seed, bounded by the canvas edges and by mask-excluded cells. In
// global mode every pixel equal to the seed (and inside the mask) is
// replaced. Fill is a no-op when the seed is off-canvas, outside the mask, or
// already equal to v.
func Fill[T pixel.Value](t Target[T], x, y int, v T, contiguous bool) ([]T, bool) {
	p := newPlotter(t, nil, v)
	if !p.writable(x, y) {
		return t.Pix, false
	}
	w := t.Width
	seed := t.Pix[y*w+x]
	if seed == v {
		return t.Pix, false
	}

	out := make([]T, len(t.Pix))
	copy(out, t.Pix)

	if !contiguous {
		for i, c := range t.Pix {
			if c == seed && (t.Mask == nil || t.Mask[i] != 0) {
				out[i] = v
			}
		}
		return out, true
	}

	// out doubles as the visited set: filled cells no longer equal seed.
	stack := []int{y*w + x}
	out[y*w+x] = v
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := i%w, i/w
		for _, n := range [4][2]int{{cx - 1, cy}, {cx + 1, cy}, {cx, cy - 1}, {cx, cy + 1}} {
			if !p.writable(n[0], n[1]) {
				continue
			}
			j := n[1]*w + n[0]
			if out[j] != seed {
				continue
			}
			out[j] = v
			stack = append(stack, j)
		}
	}
	return out, true
}
