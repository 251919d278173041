// Package pixelate reduces a rendered image to a coarse grid of flat colors
// and paints that grid back over a display as solid tiles.
package pixelate

import (
	"image"
	"image/color"
)

// Default grid resolution.
const (
	DefaultCols = 64
	DefaultRows = 128
)

// Grid is a Cols×Rows array of opaque tile colors in row-major order.
type Grid struct {
	Cols, Rows int
	Cells      []color.RGBA
}

// NewGrid allocates a grid of black tiles.
func NewGrid(cols, rows int) *Grid {
	return &Grid{Cols: cols, Rows: rows, Cells: make([]color.RGBA, cols*rows)}
}

// At returns the color of tile (x, y).
func (g *Grid) At(x, y int) color.RGBA {
	return g.Cells[y*g.Cols+x]
}

// Set sets the color of tile (x, y).
func (g *Grid) Set(x, y int, c color.RGBA) {
	g.Cells[y*g.Cols+x] = c
}

// Fill sets every tile to c.
func (g *Grid) Fill(c color.RGBA) {
	for i := range g.Cells {
		g.Cells[i] = c
	}
}

// Equal reports whether g and o have the same shape and colors.
func (g *Grid) Equal(o *Grid) bool {
	if g.Cols != o.Cols || g.Rows != o.Rows {
		return false
	}
	for i, c := range g.Cells {
		if o.Cells[i] != c {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{Cols: g.Cols, Rows: g.Rows, Cells: make([]color.RGBA, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// Edges splits length pixels into n tiles and returns the n+1 tile
// boundaries. Boundary i is i*length/n rounded to the nearest pixel, so tiles
// differ in size by at most one pixel and always sum to length.
func Edges(n, length int) []int {
	e := make([]int, n+1)
	for i := range e {
		e[i] = edge(i, n, length)
	}
	return e
}

// TileRect returns the screen rectangle of tile (x, y) for a cols×rows grid
// stretched over a width×height display.
func TileRect(x, y, cols, rows, width, height int) image.Rectangle {
	return image.Rect(
		edge(x, cols, width), edge(y, rows, height),
		edge(x+1, cols, width), edge(y+1, rows, height),
	)
}

func edge(i, n, length int) int {
	return (2*i*length + n) / (2 * n)
}
