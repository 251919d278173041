package pixelroom

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/pixelroom/internal/pixelate"
	"github.com/gogpu/pixelroom/internal/room"
	"github.com/gogpu/pixelroom/internal/texture"
)

// Errors returned by New, Resize and Config.Validate.
var (
	// ErrInvalidDimensions is returned for a non-positive display size.
	ErrInvalidDimensions = errors.New("pixelroom: invalid display dimensions")

	// ErrInvalidGrid is returned for a non-positive tile grid.
	ErrInvalidGrid = errors.New("pixelroom: invalid tile grid")

	// ErrInvalidCamera is returned for room proportions or lens settings
	// that cannot produce a picture.
	ErrInvalidCamera = errors.New("pixelroom: invalid room or camera settings")
)

// Filter selects how the rendered room is reduced to the tile grid.
type Filter = pixelate.Filter

// Downscale filters.
const (
	FilterBox        = pixelate.Box
	FilterNearest    = pixelate.Nearest
	FilterBiLinear   = pixelate.BiLinear
	FilterCatmullRom = pixelate.CatmullRom
)

// Sampling selects how room faces read the atlas.
type Sampling = texture.Filter

// Texture sampling modes.
const (
	SamplingNearest  = texture.Nearest
	SamplingBilinear = texture.Bilinear
)

// Config holds the pipeline settings. Everything here is fixed when the
// pipeline is created.
type Config struct {
	// GridCols and GridRows set the tile grid resolution.
	GridCols, GridRows int

	Filter   Filter
	Sampling Sampling

	// Background fills the room render where no face is drawn.
	Background color.RGBA
	// Placeholder fills the display while no frame is available.
	Placeholder color.RGBA

	// Room proportions and camera lens; see room.Params.
	Room room.Params
}

// DefaultConfig returns the reference configuration: a 64×128 grid, box
// downscale, bilinear face sampling, a light gray room background and a dark
// gray placeholder.
func DefaultConfig() Config {
	return Config{
		GridCols:    pixelate.DefaultCols,
		GridRows:    pixelate.DefaultRows,
		Filter:      FilterBox,
		Sampling:    SamplingBilinear,
		Background:  color.RGBA{R: 230, G: 230, B: 230, A: 255},
		Placeholder: color.RGBA{R: 40, G: 40, B: 40, A: 255},
		Room:        room.DefaultParams(),
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.GridCols <= 0 || c.GridRows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, c.GridCols, c.GridRows)
	}
	p := c.Room
	if !positive(p.HeightRatio) || !positive(p.DepthRatio) {
		return fmt.Errorf("%w: height ratio %v, depth ratio %v", ErrInvalidCamera, p.HeightRatio, p.DepthRatio)
	}
	if !(p.FOV > 0 && p.FOV < math.Pi) {
		return fmt.Errorf("%w: field of view %v", ErrInvalidCamera, p.FOV)
	}
	if !positive(p.Near) || !(p.Far > p.Near) || math.IsInf(p.Far, 0) {
		return fmt.Errorf("%w: clip planes near %v far %v", ErrInvalidCamera, p.Near, p.Far)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Option configures a Pipeline during creation.
//
// Example:
//
//	p, err := pixelroom.New(800, 1600,
//	    pixelroom.WithGrid(32, 64),
//	    pixelroom.WithEdgeStretch(true),
//	)
type Option func(*Config)

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithGrid sets the tile grid resolution.
func WithGrid(cols, rows int) Option {
	return func(c *Config) {
		c.GridCols, c.GridRows = cols, rows
	}
}

// WithFilter sets the downscale filter.
func WithFilter(f Filter) Option {
	return func(c *Config) {
		c.Filter = f
	}
}

// WithSampling sets how faces sample the atlas.
func WithSampling(s Sampling) Option {
	return func(c *Config) {
		c.Sampling = s
	}
}

// WithBackground sets the room background color.
func WithBackground(col color.RGBA) Option {
	return func(c *Config) {
		c.Background = col
	}
}

// WithPlaceholder sets the color shown while no frame is available.
func WithPlaceholder(col color.RGBA) Option {
	return func(c *Config) {
		c.Placeholder = col
	}
}

// WithEdgeStretch makes the floor, ceiling and side walls smear the outer
// edge of the frame toward the viewer instead of showing a full copy.
func WithEdgeStretch(on bool) Option {
	return func(c *Config) {
		c.Room.EdgeStretch = on
	}
}

// WithRoom sets the room height and depth relative to the shorter display side.
func WithRoom(heightRatio, depthRatio float64) Option {
	return func(c *Config) {
		c.Room.HeightRatio, c.Room.DepthRatio = heightRatio, depthRatio
	}
}

// WithCamera sets the vertical field of view in radians and the clip planes.
func WithCamera(fov, near, far float64) Option {
	return func(c *Config) {
		c.Room.FOV, c.Room.Near, c.Room.Far = fov, near, far
	}
}
