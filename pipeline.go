package pixelroom

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/pixelroom/internal/atlas"
	"github.com/gogpu/pixelroom/internal/pixelate"
	"github.com/gogpu/pixelroom/internal/room"
)

// FrameSource supplies camera frames. The pipeline polls it once per tick
// and never blocks on it.
type FrameSource interface {
	// Ready reports whether a frame is available this tick.
	Ready() bool
	// Size returns the frame width and height.
	Size() (width, height int)
	// Frame returns the current frame. The pipeline calls it once per tick
	// and takes the frame size from its bounds. The image is only read.
	Frame() image.Image
}

// Grid is the tile grid produced each tick.
type Grid = pixelate.Grid

// Status describes the outcome of one tick.
type Status uint8

const (
	// StatusIdle means no tick has run yet.
	StatusIdle Status = iota
	// StatusRendered means the display shows a freshly tiled room.
	StatusRendered
	// StatusNotReady means no frame was available; the placeholder is shown.
	StatusNotReady
	// StatusDegenerate means the frame had no usable aspect ratio; the
	// placeholder is shown.
	StatusDegenerate
	// StatusFailed means drawing failed; the placeholder is shown.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRendered:
		return "rendered"
	case StatusNotReady:
		return "not ready"
	case StatusDegenerate:
		return "degenerate"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Stats counts pipeline activity since creation.
type Stats struct {
	Ticks    int // Tick calls
	Rendered int // ticks that produced a tiled display
	Skipped  int // ticks that fell back to the placeholder

	AtlasAllocs int // atlas buffer allocations
	RoomAllocs  int // room render target allocations
}

// Pipeline turns camera frames into a tiled room display: frame → atlas →
// perspective room render → tile grid → display.
//
// A Pipeline owns all of its buffers and is not safe for concurrent use.
type Pipeline struct {
	cfg Config

	display  *gg.Context
	builder  *atlas.Builder
	renderer *room.Renderer
	pix      *pixelate.Pixelator

	status Status
	stats  Stats
}

// New creates a pipeline drawing into a width×height display. The display
// starts out showing the placeholder color.
func New(width, height int, opts ...Option) (*Pipeline, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := room.NewRenderer(cfg.Room)
	r.Filter = cfg.Sampling
	r.Background = cfg.Background

	p := &Pipeline{
		cfg:      cfg,
		display:  gg.NewContext(width, height),
		builder:  atlas.NewBuilder(nil),
		renderer: r,
		pix:      pixelate.New(cfg.GridCols, cfg.GridRows, cfg.Filter),
	}
	p.showPlaceholder()

	Logger().Info("pixelroom: pipeline created",
		"width", width, "height", height,
		"grid", fmt.Sprintf("%dx%d", cfg.GridCols, cfg.GridRows),
		"filter", cfg.Filter, "sampling", cfg.Sampling,
		"edgeStretch", cfg.Room.EdgeStretch)
	return p, nil
}

// Config returns the configuration the pipeline was created with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Tick runs one pass of the pipeline. Any problem with the frame degrades to
// the placeholder display; Tick never fails.
func (p *Pipeline) Tick(src FrameSource) Status {
	p.stats.Ticks++
	p.status = p.tick(src)
	if p.status == StatusRendered {
		p.stats.Rendered++
	} else {
		p.stats.Skipped++
		p.showPlaceholder()
	}
	return p.status
}

func (p *Pipeline) tick(src FrameSource) Status {
	log := Logger()
	if src == nil || !src.Ready() {
		log.Debug("pixelroom: frame not ready")
		return StatusNotReady
	}

	// One read per tick: the atlas cell, the camera aspect and the pixels
	// must all come from the same frame.
	frame := src.Frame()
	if frame == nil {
		log.Debug("pixelroom: frame source returned no image")
		return StatusNotReady
	}
	fb := frame.Bounds()
	tw, th := fb.Dx(), fb.Dy()
	if tw <= 0 || th <= 0 {
		log.Debug("pixelroom: degenerate frame size", "width", tw, "height", th)
		return StatusDegenerate
	}

	allocs := p.builder.Allocations()
	tex := p.builder.BuildRegion(frame, fb, tw, th)
	if tex == nil {
		log.Debug("pixelroom: empty frame", "bounds", fb)
		return StatusNotReady
	}
	if p.builder.Allocations() != allocs {
		log.Debug("pixelroom: atlas allocated", "width", tex.Bounds().Dx(), "height", tex.Bounds().Dy())
	}

	dw, dh := p.display.Width(), p.display.Height()
	allocs = p.renderer.Allocations()
	rendered, err := p.renderer.Render(tex, dw, dh, float64(tw)/float64(th))
	switch {
	case errors.Is(err, room.ErrDegenerateAspect):
		log.Debug("pixelroom: degenerate camera aspect", "width", tw, "height", th)
		return StatusDegenerate
	case err != nil:
		log.Warn("pixelroom: room render failed", "err", err)
		return StatusFailed
	}
	if p.renderer.Allocations() != allocs {
		log.Debug("pixelroom: room target allocated", "width", dw, "height", dh)
	}

	grid := p.pix.Downsample(rendered)
	p.display.ClearWithColor(pixelate.Color(p.cfg.Background))
	if err := pixelate.Paint(p.display, grid); err != nil {
		log.Warn("pixelroom: tile paint failed", "err", err)
		return StatusFailed
	}
	return StatusRendered
}

func (p *Pipeline) showPlaceholder() {
	p.display.ClearWithColor(pixelate.Color(p.cfg.Placeholder))
}

// Resize reinitializes the display at a new size. The room target follows
// on the next tick. Until then the placeholder is shown.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width == p.display.Width() && height == p.display.Height() {
		return nil
	}
	if err := p.display.Resize(width, height); err != nil {
		return fmt.Errorf("pixelroom: resize display: %w", err)
	}
	p.showPlaceholder()
	Logger().Info("pixelroom: display resized", "width", width, "height", height)
	return nil
}

// Size returns the display size.
func (p *Pipeline) Size() (width, height int) {
	return p.display.Width(), p.display.Height()
}

// Status returns the outcome of the last tick.
func (p *Pipeline) Status() Status {
	return p.status
}

// Stats returns activity counters.
func (p *Pipeline) Stats() Stats {
	s := p.stats
	s.AtlasAllocs = p.builder.Allocations()
	s.RoomAllocs = p.renderer.Allocations()
	return s
}

// Display returns the gg context the tiles are painted into. Drawing on it
// is allowed but is overwritten by the next tick.
func (p *Pipeline) Display() *gg.Context {
	return p.display
}

// Image returns a copy of the current display.
func (p *Pipeline) Image() image.Image {
	return p.display.Image()
}

// Grid returns the tile grid of the last rendered tick. It is owned by the
// pipeline and overwritten by the next tick.
func (p *Pipeline) Grid() *Grid {
	return p.pix.Grid()
}

// Atlas returns the current texture atlas, or nil before the first frame.
func (p *Pipeline) Atlas() *image.RGBA {
	return p.builder.Image()
}

// Room returns the last full-resolution room render, or nil before the first
// frame.
func (p *Pipeline) Room() *image.RGBA {
	return p.renderer.Image()
}

// SavePNG writes the current display to path.
func (p *Pipeline) SavePNG(path string) error {
	if err := p.display.SavePNG(path); err != nil {
		return fmt.Errorf("pixelroom: save %s: %w", path, err)
	}
	Logger().Info("pixelroom: display saved", "path", path)
	return nil
}

// EncodePNG writes the current display as PNG to w.
func (p *Pipeline) EncodePNG(w io.Writer) error {
	if err := p.display.EncodePNG(w); err != nil {
		return fmt.Errorf("pixelroom: encode png: %w", err)
	}
	return nil
}

// Close releases the display.
func (p *Pipeline) Close() error {
	return p.display.Close()
}
