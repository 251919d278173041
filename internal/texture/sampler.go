// Package texture samples RGBA textures at normalized coordinates.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Filter defines how texture sampling is performed.
type Filter uint8

const (
	// Nearest selects the closest texel.
	// Fast but blocky when a face is magnified.
	Nearest Filter = iota

	// Bilinear interpolates between the 4 neighboring texels.
	Bilinear
)

// String returns a string representation of the filter.
func (f Filter) String() string {
	switch f {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// ParseFilter parses a filter name as produced by String.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	default:
		return 0, fmt.Errorf("texture: unknown filter %q", s)
	}
}

// Sampler reads one texture through a clip rectangle.
//
// u and v are normalized over the whole texture, (0,0) top-left and (1,1)
// bottom-right. Texel lookups are clamped to Clip, so a sampler restricted to
// one atlas cell never reads a neighboring cell, even when filtering straddles
// the cell edge.
type Sampler struct {
	Tex    *image.RGBA
	Clip   image.Rectangle
	Filter Filter
}

// NewSampler returns a sampler over the part of tex inside clip.
// An empty clip selects the whole texture.
func NewSampler(tex *image.RGBA, clip image.Rectangle, f Filter) Sampler {
	b := tex.Bounds()
	if clip.Empty() {
		clip = b
	}
	return Sampler{Tex: tex, Clip: clip.Intersect(b), Filter: f}
}

// Sample returns the texel color at (u, v).
func (s Sampler) Sample(u, v float64) color.RGBA {
	if s.Clip.Empty() {
		return color.RGBA{}
	}
	switch s.Filter {
	case Bilinear:
		return s.bilinear(u, v)
	default:
		return s.nearest(u, v)
	}
}

func (s Sampler) nearest(u, v float64) color.RGBA {
	b := s.Tex.Bounds()
	x := b.Min.X + int(math.Floor(u*float64(b.Dx())))
	y := b.Min.Y + int(math.Floor(v*float64(b.Dy())))
	return s.texel(x, y)
}

func (s Sampler) bilinear(u, v float64) color.RGBA {
	b := s.Tex.Bounds()

	// Continuous texel coordinates with texel centers at integer + 0.5.
	fx := float64(b.Min.X) + u*float64(b.Dx()) - 0.5
	fy := float64(b.Min.Y) + v*float64(b.Dy()) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := s.texel(x0, y0)
	c10 := s.texel(x0+1, y0)
	c01 := s.texel(x0, y0+1)
	c11 := s.texel(x0+1, y0+1)

	return color.RGBA{
		R: lerp2D(c00.R, c10.R, c01.R, c11.R, tx, ty),
		G: lerp2D(c00.G, c10.G, c01.G, c11.G, tx, ty),
		B: lerp2D(c00.B, c10.B, c01.B, c11.B, tx, ty),
		A: lerp2D(c00.A, c10.A, c01.A, c11.A, tx, ty),
	}
}

// texel returns the pixel at (x, y) clamped to the clip rectangle.
func (s Sampler) texel(x, y int) color.RGBA {
	x = clamp(x, s.Clip.Min.X, s.Clip.Max.X-1)
	y = clamp(y, s.Clip.Min.Y, s.Clip.Max.Y-1)
	i := s.Tex.PixOffset(x, y)
	p := s.Tex.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// lerp2D performs bilinear interpolation on a 2x2 grid of 8-bit values.
func lerp2D(v00, v10, v01, v11 uint8, tx, ty float64) uint8 {
	v0 := float64(v00)*(1-tx) + float64(v10)*tx
	v1 := float64(v01)*(1-tx) + float64(v11)*tx
	return uint8(math.Round(v0*(1-ty) + v1*ty))
}
