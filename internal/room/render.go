package room

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/pixelroom/internal/atlas"
	"github.com/gogpu/pixelroom/internal/geom"
	"github.com/gogpu/pixelroom/internal/raster"
	"github.com/gogpu/pixelroom/internal/texture"
)

// Errors returned by Render.
var (
	// ErrEmptyViewport is returned for a zero-area render target.
	ErrEmptyViewport = errors.New("room: empty viewport")

	// ErrDegenerateAspect is returned when the camera aspect ratio is not a
	// positive finite number.
	ErrDegenerateAspect = errors.New("room: degenerate camera aspect ratio")
)

// Background is the color left where no face covers the viewport.
var Background = color.RGBA{R: 230, G: 230, B: 230, A: 255}

// Renderer draws the room into an offscreen target that is reused while the
// viewport size stays the same.
type Renderer struct {
	Params     Params
	Filter     texture.Filter
	Background color.RGBA

	target *raster.Target
	allocs int
}

// NewRenderer returns a renderer with the given parameters, bilinear face
// sampling and the default background.
func NewRenderer(p Params) *Renderer {
	return &Renderer{
		Params:     p,
		Filter:     texture.Bilinear,
		Background: Background,
	}
}

// Render draws the five faces of the room textured from atlasImg into a
// width×height image. aspect is the camera frame's width/height; the atlas is
// assumed to be a 3×3 grid of frame-sized cells.
//
// The returned image is owned by the renderer and overwritten by the next call.
func (r *Renderer) Render(atlasImg *image.RGBA, width, height int, aspect float64) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyViewport
	}
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		return nil, ErrDegenerateAspect
	}

	r.ensure(width, height)
	r.target.Clear(r.Background)

	box := BoxFor(width, height, aspect, r.Params)
	vp := CameraFor(width, height, r.Params).ViewProjection()

	ab := atlasImg.Bounds()
	tw, th := ab.Dx()/atlas.GridSize, ab.Dy()/atlas.GridSize

	for _, q := range Quads(box, r.Params.EdgeStretch) {
		clip := atlas.CellOf(q.Face).Rect(tw, th).Add(ab.Min)
		s := texture.NewSampler(atlasImg, clip, r.Filter)
		r.target.DrawQuad(clipQuad(vp, q), s)
	}
	return r.target.Image(), nil
}

// Image returns the last rendered frame, or nil before the first Render.
func (r *Renderer) Image() *image.RGBA {
	if r.target == nil {
		return nil
	}
	return r.target.Image()
}

// Allocations returns how many times the render target has been allocated.
func (r *Renderer) Allocations() int {
	return r.allocs
}

func (r *Renderer) ensure(width, height int) {
	if r.target != nil && r.target.Width() == width && r.target.Height() == height {
		return
	}
	r.target = raster.NewTarget(width, height)
	r.allocs++
}

func clipQuad(vp geom.Mat4, q Quad) [4]raster.Vertex {
	var v [4]raster.Vertex
	for i := range v {
		v[i] = raster.Vertex{Clip: vp.Apply(q.Corners[i].Point()), UV: q.UV[i]}
	}
	return v
}
