// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides a software rasterizer for textured triangles in
// homogeneous clip space.
//
// Triangles are clipped against the near and far planes, projected to the
// viewport, and filled with perspective-correct texture coordinates behind a
// depth buffer. The viewport maps NDC +Y to the top row of the image.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/pixelroom/internal/geom"
)

// Sampler supplies texel colors for normalized texture coordinates.
type Sampler interface {
	Sample(u, v float64) color.RGBA
}

// Vertex is a clip-space position with its texture coordinate.
type Vertex struct {
	Clip geom.Vec4
	UV   geom.Vec2
}

// Target is a color image paired with a depth buffer of the same size.
type Target struct {
	img   *image.RGBA
	depth []float64
}

// NewTarget allocates a width×height target.
func NewTarget(width, height int) *Target {
	return &Target{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		depth: make([]float64, width*height),
	}
}

// Image returns the color buffer.
func (t *Target) Image() *image.RGBA {
	return t.img
}

// Width returns the target width in pixels.
func (t *Target) Width() int {
	return t.img.Rect.Dx()
}

// Height returns the target height in pixels.
func (t *Target) Height() int {
	return t.img.Rect.Dy()
}

// Clear fills the color buffer with c and resets depth to the far distance.
func (t *Target) Clear(c color.RGBA) {
	pix := t.img.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	for i := 4; i < len(pix); i *= 2 {
		copy(pix[i:], pix[:i])
	}

	// Use copy-doubling for the depth buffer as well.
	t.depth[0] = math.Inf(1)
	for i := 1; i < len(t.depth); i *= 2 {
		copy(t.depth[i:], t.depth[:i])
	}
}

// DrawQuad draws the quad v0-v1-v2-v3 as the triangles (v0,v1,v2) and (v0,v2,v3).
func (t *Target) DrawQuad(v [4]Vertex, s Sampler) {
	t.DrawTriangle(v[0], v[1], v[2], s)
	t.DrawTriangle(v[0], v[2], v[3], s)
}

// DrawTriangle clips, projects and fills one triangle. Both windings are drawn.
func (t *Target) DrawTriangle(a, b, c Vertex, s Sampler) {
	var buf [2][8]Vertex
	poly := append(buf[0][:0], a, b, c)

	// Near plane: z >= -w. Far plane: z <= w.
	poly = clipPolygon(poly, buf[1][:0], func(v geom.Vec4) float64 { return v.Z + v.W })
	poly = clipPolygon(poly, buf[0][:0], func(v geom.Vec4) float64 { return v.W - v.Z })
	if len(poly) < 3 {
		return
	}

	var sv [8]screenVertex
	for i, v := range poly {
		sv[i] = t.project(v)
	}
	for i := 1; i+1 < len(poly); i++ {
		t.fill(sv[0], sv[i], sv[i+1], s)
	}
}

// clipPolygon keeps the part of poly where dist >= 0 (Sutherland-Hodgman).
// out must not alias poly.
func clipPolygon(poly, out []Vertex, dist func(geom.Vec4) float64) []Vertex {
	if len(poly) == 0 {
		return out
	}
	prev := poly[len(poly)-1]
	dPrev := dist(prev.Clip)
	for _, cur := range poly {
		dCur := dist(cur.Clip)
		if (dPrev >= 0) != (dCur >= 0) {
			out = append(out, lerpVertex(prev, cur, dPrev/(dPrev-dCur)))
		}
		if dCur >= 0 {
			out = append(out, cur)
		}
		prev, dPrev = cur, dCur
	}
	return out
}

func lerpVertex(a, b Vertex, t float64) Vertex {
	return Vertex{
		Clip: a.Clip.Lerp(b.Clip, t),
		UV: geom.Vec2{
			X: a.UV.X + (b.UV.X-a.UV.X)*t,
			Y: a.UV.Y + (b.UV.Y-a.UV.Y)*t,
		},
	}
}

// screenVertex holds a vertex after the perspective divide.
type screenVertex struct {
	X, Y float64 // pixel coordinates
	Z    float64 // NDC depth
	InvW float64 // 1/w for perspective-correct interpolation
	UoW  float64 // u/w
	VoW  float64 // v/w
}

func (t *Target) project(v Vertex) screenVertex {
	w := v.Clip.W
	invW := 1 / w
	return screenVertex{
		X:    (v.Clip.X*invW + 1) * 0.5 * float64(t.Width()),
		Y:    (1 - v.Clip.Y*invW) * 0.5 * float64(t.Height()),
		Z:    v.Clip.Z * invW,
		InvW: invW,
		UoW:  v.UV.X * invW,
		VoW:  v.UV.Y * invW,
	}
}

// edgeEpsilon admits pixel centers that sit on a shared edge but land a
// rounding error outside both triangles.
const edgeEpsilon = 1e-9

// fill rasterizes a projected triangle, sampling at pixel centers.
// Pixels on a shared edge are covered by both triangles; the depth test keeps
// the first write.
func (t *Target) fill(a, b, c screenVertex, s Sampler) {
	area := edge(a.X, a.Y, b.X, b.Y, c.X, c.Y)
	if area == 0 || math.IsNaN(area) {
		return
	}

	w, h := t.Width(), t.Height()
	minX := max(0, int(math.Floor(min(a.X, b.X, c.X))))
	maxX := min(w-1, int(math.Ceil(max(a.X, b.X, c.X))))
	minY := max(0, int(math.Floor(min(a.Y, b.Y, c.Y))))
	maxY := min(h-1, int(math.Ceil(max(a.Y, b.Y, c.Y))))

	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			// Barycentric weights, normalized so both windings are positive.
			l0 := edge(b.X, b.Y, c.X, c.Y, px, py) * inv
			l1 := edge(c.X, c.Y, a.X, a.Y, px, py) * inv
			l2 := 1 - l0 - l1
			if l0 < -edgeEpsilon || l1 < -edgeEpsilon || l2 < -edgeEpsilon {
				continue
			}

			z := l0*a.Z + l1*b.Z + l2*c.Z
			i := y*w + x
			if z >= t.depth[i] {
				continue
			}

			oneOverW := l0*a.InvW + l1*b.InvW + l2*c.InvW
			if oneOverW == 0 {
				continue
			}
			u := (l0*a.UoW + l1*b.UoW + l2*c.UoW) / oneOverW
			v := (l0*a.VoW + l1*b.VoW + l2*c.VoW) / oneOverW

			t.depth[i] = z
			t.blend(x, y, s.Sample(u, v))
		}
	}
}

// blend composites c over the pixel at (x, y) with straight alpha.
func (t *Target) blend(x, y int, c color.RGBA) {
	o := t.img.PixOffset(x, y)
	p := t.img.Pix[o : o+4 : o+4]
	switch c.A {
	case 0xff:
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	case 0:
	default:
		a := uint32(c.A)
		ia := 0xff - a
		p[0] = uint8((uint32(c.R)*a + uint32(p[0])*ia) / 0xff)
		p[1] = uint8((uint32(c.G)*a + uint32(p[1])*ia) / 0xff)
		p[2] = uint8((uint32(c.B)*a + uint32(p[2])*ia) / 0xff)
		p[3] = uint8(a + uint32(p[3])*ia/0xff)
	}
}

// edge returns twice the signed area of the triangle (ax,ay), (bx,by), (px,py).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}
