package atlas

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Builder owns the atlas buffer and refreshes it from a frame every tick.
//
// The buffer is reused while the frame size is unchanged and replaced with a new
// allocation whenever it changes. Builder is not safe for concurrent use.
type Builder struct {
	img    *image.RGBA
	tw, th int
	scaler draw.Scaler
	allocs int
}

// NewBuilder returns a Builder that scales with scaler when a face does not map
// 1:1 onto its cell. A nil scaler selects draw.ApproxBiLinear.
func NewBuilder(scaler draw.Scaler) *Builder {
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	return &Builder{scaler: scaler}
}

// Build refreshes the atlas from the whole of frame and returns it.
// Returns nil for an empty frame.
func (b *Builder) Build(frame image.Image) *image.RGBA {
	r := frame.Bounds()
	return b.BuildRegion(frame, r, r.Dx(), r.Dy())
}

// BuildRegion refreshes the atlas for a tw×th cell size, copying the sr region
// of src into each face cell. The region is scaled uniformly so its longer edge
// matches the cell's longer edge, then centered; anything that would spill out
// of the cell is clipped. Returns nil if the cell size or region is empty.
func (b *Builder) BuildRegion(src image.Image, sr image.Rectangle, tw, th int) *image.RGBA {
	sr = sr.Intersect(src.Bounds())
	if tw <= 0 || th <= 0 || sr.Empty() {
		return nil
	}
	b.ensure(tw, th)

	clear(b.img.Pix)

	fit := Fit(tw, th, sr.Dx(), sr.Dy())
	exact := fit.Dx() == sr.Dx() && fit.Dy() == sr.Dy()
	for _, m := range Faces {
		cell := m.Cell.Rect(tw, th)
		dst := b.img.SubImage(cell).(*image.RGBA)
		dr := fit.Add(cell.Min)
		if exact {
			draw.Copy(dst, dr.Min, src, sr, draw.Src, nil)
			continue
		}
		b.scaler.Scale(dst, dr, src, sr, draw.Src, nil)
	}
	return b.img
}

// ensure reallocates the atlas when the cell size changed.
func (b *Builder) ensure(tw, th int) {
	if b.img != nil && b.tw == tw && b.th == th {
		return
	}
	b.img = image.NewRGBA(image.Rect(0, 0, GridSize*tw, GridSize*th))
	b.tw, b.th = tw, th
	b.allocs++
}

// Image returns the current atlas, or nil before the first build.
func (b *Builder) Image() *image.RGBA {
	return b.img
}

// CellSize returns the frame size the atlas was last built for.
func (b *Builder) CellSize() (tw, th int) {
	return b.tw, b.th
}

// Allocations returns how many times the atlas buffer has been allocated.
func (b *Builder) Allocations() int {
	return b.allocs
}

// Fit returns the rectangle, relative to a tw×th cell, that a sw×sh source
// occupies after uniform scaling by s = max(tw,th)/max(sw,sh) and centering.
// For a source the same size as the cell this is the whole cell.
func Fit(tw, th, sw, sh int) image.Rectangle {
	s := float64(max(tw, th)) / float64(max(sw, sh))
	dw := float64(sw) * s
	dh := float64(sh) * s
	ox := (float64(tw) - dw) / 2
	oy := (float64(th) - dh) / 2

	x0 := int(math.Round(ox))
	y0 := int(math.Round(oy))
	return image.Rect(x0, y0, x0+int(math.Round(dw)), y0+int(math.Round(dh)))
}
