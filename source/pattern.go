package source

import (
	"errors"
	"image"
	"math"
	"time"

	"github.com/gogpu/gg"
)

// barColors are the classic seven test-card bars, left to right.
var barColors = [...]gg.RGBA{
	gg.RGB(0.75, 0.75, 0.75),
	gg.RGB(0.75, 0.75, 0),
	gg.RGB(0, 0.75, 0.75),
	gg.RGB(0, 0.75, 0),
	gg.RGB(0.75, 0, 0.75),
	gg.RGB(0.75, 0, 0),
	gg.RGB(0, 0, 0.75),
}

// Pattern is a synthetic camera: a test card of color bars with a ball that
// bounces across it when animated. It needs no hardware and is handy for
// demos and tests.
type Pattern struct {
	w, h    int
	animate bool
	now     func() time.Time
	start   time.Time

	dc *gg.Context
}

// PatternOption configures a Pattern.
type PatternOption func(*Pattern)

// Animated makes the ball move with wall-clock time.
func Animated() PatternOption {
	return func(p *Pattern) {
		p.animate = true
	}
}

// PatternClock replaces the wall clock used for animation.
func PatternClock(now func() time.Time) PatternOption {
	return func(p *Pattern) {
		p.now = now
	}
}

// NewPattern returns a width×height test card.
func NewPattern(width, height int, opts ...PatternOption) *Pattern {
	p := &Pattern{w: width, h: height, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	p.start = p.now()
	return p
}

// Ready reports whether the card has a drawable size.
func (p *Pattern) Ready() bool {
	return p.w > 0 && p.h > 0
}

// Size returns the card size.
func (p *Pattern) Size() (width, height int) {
	return p.w, p.h
}

// Frame draws and returns the card. A static card is drawn once.
func (p *Pattern) Frame() image.Image {
	if !p.Ready() {
		return nil
	}
	if p.dc == nil {
		p.dc = gg.NewContext(p.w, p.h)
	} else if !p.animate {
		return p.dc.Image()
	}
	if err := p.draw(p.phase()); err != nil {
		gg.Logger().Debug("source: test card drawn incompletely", "err", err)
	}
	return p.dc.Image()
}

// phase returns the ball position in [0, 1), one round trip every four
// seconds. A static card parks the ball in the middle.
func (p *Pattern) phase() float64 {
	if !p.animate {
		return 0.25
	}
	t := p.now().Sub(p.start).Seconds() / 4
	return t - math.Floor(t)
}

// draw paints the card and returns every fill or stroke error joined.
func (p *Pattern) draw(phase float64) error {
	dc := p.dc
	w, h := float64(p.w), float64(p.h)

	var errs []error
	dc.ClearWithColor(gg.RGB(0.1, 0.1, 0.1))

	// Bars over the top two thirds.
	bw := w / float64(len(barColors))
	for i, c := range barColors {
		dc.SetRGB(c.R, c.G, c.B)
		dc.DrawRectangle(float64(i)*bw, 0, bw+1, h*2/3)
		errs = append(errs, dc.Fill())
	}

	// Gray ramp along the bottom third.
	const steps = 8
	for i := 0; i < steps; i++ {
		v := float64(i) / (steps - 1)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(i)*w/steps, h*2/3, w/steps+1, h/3)
		errs = append(errs, dc.Fill())
	}

	// White frame marks the card edges so they stand out on the walls.
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(math.Max(2, h/60))
	dc.DrawRectangle(0, 0, w, h)
	errs = append(errs, dc.Stroke())

	// Ball on a triangle-wave path across the middle.
	r := h / 8
	x := r + (w-2*r)*(1-math.Abs(2*phase-1))
	dc.SetRGB(1, 0.45, 0.1)
	dc.DrawCircle(x, h/3, r)
	errs = append(errs, dc.Fill())
	return errors.Join(errs...)
}
