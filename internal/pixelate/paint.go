package pixelate

import (
	"fmt"
	"image/color"

	"github.com/gogpu/gg"
)

// Paint redraws dc as solid tiles, one per grid cell. Tile boundaries come
// from TileRect, so the tiles cover the whole context without gaps or
// overlaps. Edges are rounded to whole pixels so that neighbouring tiles never
// share an anti-aliased seam; tile sizes differ by at most one pixel.
func Paint(dc *gg.Context, g *Grid) error {
	w, h := dc.Width(), dc.Height()
	xs := Edges(g.Cols, w)
	ys := Edges(g.Rows, h)

	for ty := 0; ty < g.Rows; ty++ {
		y0, y1 := ys[ty], ys[ty+1]
		if y0 == y1 {
			continue
		}
		for tx := 0; tx < g.Cols; tx++ {
			x0, x1 := xs[tx], xs[tx+1]
			if x0 == x1 {
				continue
			}
			c := Color(g.At(tx, ty))
			dc.SetRGB(c.R, c.G, c.B)
			dc.DrawRectangle(float64(x0), float64(y0), float64(x1-x0), float64(y1-y0))
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("pixelate: fill tile (%d,%d): %w", tx, ty, err)
			}
		}
	}
	return nil
}

// Color converts an 8-bit color to a gg color that maps back to the same
// 8-bit channels when gg quantizes it.
func Color(c color.RGBA) gg.RGBA {
	return gg.RGBA{
		R: (float64(c.R) + 0.5) / 255,
		G: (float64(c.G) + 0.5) / 255,
		B: (float64(c.B) + 0.5) / 255,
		A: 1,
	}
}
