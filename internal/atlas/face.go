// Package atlas builds the room texture atlas: five copies of one camera frame
// laid out on a 3x3 grid of frame-sized cells, one per room face.
//
// The face table below is the single source of truth for where each face lives.
// The builder writes faces into these cells and the room renderer derives its UV
// rectangles from the same cells, so the two can never disagree.
package atlas

import (
	"fmt"
	"image"
)

// GridSize is the number of cells along each side of the atlas.
const GridSize = 3

// Face identifies one of the five visible faces of the room box.
type Face uint8

// Room faces. The front face (the viewer's side) does not exist.
const (
	FaceBack Face = iota
	FaceCeiling
	FaceFloor
	FaceLeft
	FaceRight
)

// String returns the face name.
func (f Face) String() string {
	switch f {
	case FaceBack:
		return "back"
	case FaceCeiling:
		return "ceiling"
	case FaceFloor:
		return "floor"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	default:
		return fmt.Sprintf("Face(%d)", uint8(f))
	}
}

// Cell addresses one cell of the 3x3 atlas grid.
type Cell struct {
	Col, Row int
}

// Mapping ties a face to its atlas cell.
type Mapping struct {
	Face Face
	Cell Cell
}

// Faces is the fixed face layout. Back, ceiling and floor share the middle
// column; left and right flank the middle row. This is the cross-shaped
// unfolding of the box around its back wall.
var Faces = [...]Mapping{
	{Face: FaceBack, Cell: Cell{Col: 1, Row: 1}},
	{Face: FaceCeiling, Cell: Cell{Col: 1, Row: 0}},
	{Face: FaceFloor, Cell: Cell{Col: 1, Row: 2}},
	{Face: FaceLeft, Cell: Cell{Col: 0, Row: 1}},
	{Face: FaceRight, Cell: Cell{Col: 2, Row: 1}},
}

// CellOf returns the atlas cell holding face f.
func CellOf(f Face) Cell {
	for _, m := range Faces {
		if m.Face == f {
			return m.Cell
		}
	}
	panic(fmt.Sprintf("atlas: unknown face %v", f))
}

// Populated reports whether any face is placed in c.
func (c Cell) Populated() bool {
	for _, m := range Faces {
		if m.Cell == c {
			return true
		}
	}
	return false
}

// UVRect is a rectangle in normalized atlas texture space, (0,0) top-left.
type UVRect struct {
	U0, V0, U1, V1 float64
}

// UV returns the normalized texture rectangle covered by c:
// [col/3, (col+1)/3] × [row/3, (row+1)/3].
func (c Cell) UV() UVRect {
	const step = 1.0 / GridSize
	return UVRect{
		U0: float64(c.Col) * step,
		V0: float64(c.Row) * step,
		U1: float64(c.Col+1) * step,
		V1: float64(c.Row+1) * step,
	}
}

// Rect returns the pixel rectangle of c in an atlas built from tw×th frames.
func (c Cell) Rect(tw, th int) image.Rectangle {
	return image.Rect(c.Col*tw, c.Row*th, (c.Col+1)*tw, (c.Row+1)*th)
}

// Center returns the center pixel of c in an atlas built from tw×th frames.
func (c Cell) Center(tw, th int) image.Point {
	return image.Pt(c.Col*tw+tw/2, c.Row*th+th/2)
}
