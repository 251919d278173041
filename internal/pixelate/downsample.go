package pixelate

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Pixelator downsamples images to a fixed grid, reusing its output grid and
// scratch buffers between calls.
type Pixelator struct {
	cols, rows int
	filter     Filter

	grid    *Grid
	scratch *image.RGBA
	xs, ys  [][]span
	srcW    int
	srcH    int
}

// New returns a pixelator producing cols×rows grids.
// Non-positive dimensions fall back to the default grid.
func New(cols, rows int, f Filter) *Pixelator {
	if cols <= 0 || rows <= 0 {
		cols, rows = DefaultCols, DefaultRows
	}
	return &Pixelator{cols: cols, rows: rows, filter: f, grid: NewGrid(cols, rows)}
}

// Size returns the grid resolution.
func (p *Pixelator) Size() (cols, rows int) {
	return p.cols, p.rows
}

// Filter returns the downscale kernel.
func (p *Pixelator) Filter() Filter {
	return p.filter
}

// Grid returns the most recent result.
func (p *Pixelator) Grid() *Grid {
	return p.grid
}

// Downsample reduces src to the pixelator's grid. The returned grid is owned
// by the pixelator and overwritten by the next call. Tile colors are opaque;
// source alpha is ignored.
func (p *Pixelator) Downsample(src image.Image) *Grid {
	b := src.Bounds()
	if b.Empty() {
		p.grid.Fill(color.RGBA{A: 0xff})
		return p.grid
	}
	if s := p.filter.scaler(); s != nil {
		p.scale(s, src)
	} else {
		p.box(src)
	}
	return p.grid
}

// Downsample is a convenience wrapper allocating a fresh Pixelator.
func Downsample(src image.Image, cols, rows int, f Filter) *Grid {
	return New(cols, rows, f).Downsample(src)
}

func (p *Pixelator) scale(s draw.Scaler, src image.Image) {
	if p.scratch == nil {
		p.scratch = image.NewRGBA(image.Rect(0, 0, p.cols, p.rows))
	}
	s.Scale(p.scratch, p.scratch.Bounds(), src, src.Bounds(), draw.Src, nil)
	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.cols; x++ {
			c := p.scratch.RGBAAt(x, y)
			c.A = 0xff
			p.grid.Set(x, y, c)
		}
	}
}

// span is one source pixel contributing to a tile with the given weight.
type span struct {
	i int
	w float64
}

// spans returns, for each of n tiles over length pixels, the source pixels
// the tile overlaps and the overlap widths.
func spans(n, length int) [][]span {
	out := make([][]span, n)
	step := float64(length) / float64(n)
	for k := range out {
		lo := float64(k) * step
		hi := float64(k+1) * step
		first := int(math.Floor(lo))
		last := min(length-1, int(math.Ceil(hi))-1)
		for i := first; i <= last; i++ {
			w := math.Min(hi, float64(i+1)) - math.Max(lo, float64(i))
			if w > 0 {
				out[k] = append(out[k], span{i: i, w: w})
			}
		}
	}
	return out
}

// box computes area-weighted tile averages, in the manner of a mipmap box
// filter generalized to non-integer ratios.
func (p *Pixelator) box(src image.Image) {
	b := src.Bounds()
	if p.srcW != b.Dx() || p.srcH != b.Dy() {
		p.srcW, p.srcH = b.Dx(), b.Dy()
		p.xs = spans(p.cols, p.srcW)
		p.ys = spans(p.rows, p.srcH)
	}

	rgba, ok := src.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	rb := rgba.Bounds()

	for ty, ysp := range p.ys {
		for tx, xsp := range p.xs {
			var r, g, bl, area float64
			for _, sy := range ysp {
				row := rgba.PixOffset(rb.Min.X, rb.Min.Y+sy.i)
				for _, sx := range xsp {
					w := sx.w * sy.w
					i := row + sx.i*4
					r += float64(rgba.Pix[i+0]) * w
					g += float64(rgba.Pix[i+1]) * w
					bl += float64(rgba.Pix[i+2]) * w
					area += w
				}
			}
			if area == 0 {
				p.grid.Set(tx, ty, color.RGBA{A: 0xff})
				continue
			}
			p.grid.Set(tx, ty, color.RGBA{
				R: uint8(math.Round(r / area)),
				G: uint8(math.Round(g / area)),
				B: uint8(math.Round(bl / area)),
				A: 0xff,
			})
		}
	}
}
