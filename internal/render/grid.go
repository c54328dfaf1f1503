package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// DefaultGridColor is a semi-transparent mid gray.
const DefaultGridColor uint32 = 0x80808080

// GridOptions controls Grid.
type GridOptions struct {
	// Cell is the size of one canvas pixel in the rendered image.
	Cell int
	// Color is the packed line color; lines are alpha-blended.
	Color uint32
	// LabelEvery places an "x,y" canvas coordinate label every LabelEvery
	// canvas pixels. Zero disables labels.
	LabelEvery int
}

// Grid draws canvas pixel boundaries over an upscaled render so individual
// pixels can be told apart and addressed.
func Grid(img image.Image, o GridOptions) (*image.NRGBA, error) {
	if o.Cell < 2 {
		return nil, fmt.Errorf("grid needs a cell size of at least 2, got %d", o.Cell)
	}
	dst := imaging.Clone(img)
	b := dst.Bounds()
	r, g, bl, a := pixel.Unpack(o.Color)
	line := image.NewUniform(color.NRGBA{r, g, bl, a})

	for x := o.Cell; x < b.Dx(); x += o.Cell {
		draw.Draw(dst, image.Rect(x, 0, x+1, b.Dy()), line, image.Point{}, draw.Over)
	}
	for y := o.Cell; y < b.Dy(); y += o.Cell {
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+1), line, image.Point{}, draw.Over)
	}

	if o.LabelEvery > 0 {
		step := o.LabelEvery * o.Cell
		fg := color.NRGBA{255, 255, 255, 255}
		bg := color.NRGBA{0, 0, 0, 180}
		for y := step; y < b.Dy(); y += step {
			for x := step; x < b.Dx(); x += step {
				drawLabel(dst, x+2, y+2, fmt.Sprintf("%d,%d", x/o.Cell, y/o.Cell), fg, bg)
			}
		}
	}
	return dst, nil
}

// glyphs is a 3x5 bitmap font covering coordinate labels.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel renders text with its top-left corner at (x, y) on a filled
// background, clipped to the image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	const charWidth, labelHeight = 4, 6
	bounds := img.Bounds()

	box := image.Rect(x-1, y-1, x+len(text)*charWidth, y+labelHeight).Intersect(bounds)
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, bits := range glyph {
				for col, bit := range bits {
					if bit == '1' && image.Pt(cx+col, y+row).In(bounds) {
						img.SetNRGBA(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
