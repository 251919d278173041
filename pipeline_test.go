package pixelroom

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/pixelroom/internal/pixelate"
	"github.com/gogpu/pixelroom/source"
)

// fakeSource is a FrameSource with fixed answers.
type fakeSource struct {
	ready bool
	w, h  int
	img   image.Image
}

func (s *fakeSource) Ready() bool        { return s.ready }
func (s *fakeSource) Size() (int, int)   { return s.w, s.h }
func (s *fakeSource) Frame() image.Image { return s.img }

func newSource(img image.Image) *fakeSource {
	b := img.Bounds()
	return &fakeSource{ready: true, w: b.Dx(), h: b.Dy(), img: img}
}

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// gradientFrame varies in both directions so that different faces and
// regions produce different tiles.
func gradientFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= tol && d(a.G, b.G) <= tol && d(a.B, b.B) <= tol
}

func displayRGBA(t *testing.T, p *Pipeline) *image.RGBA {
	t.Helper()
	img, ok := p.Image().(*image.RGBA)
	if !ok {
		t.Fatalf("display image is %T, want *image.RGBA", p.Image())
	}
	return img
}

func assertUniform(t *testing.T, img *image.RGBA, want color.RGBA) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want uniform %v", x, y, got, want)
			}
		}
	}
}

func newPipeline(t *testing.T, w, h int, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d) = %v", w, h, err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

var placeholder = color.RGBA{R: 40, G: 40, B: 40, A: 255}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		opts []Option
		want error
	}{
		{"zero width", 0, 10, nil, ErrInvalidDimensions},
		{"negative height", 10, -5, nil, ErrInvalidDimensions},
		{"empty grid", 10, 10, []Option{WithGrid(0, 0)}, ErrInvalidGrid},
		{"bad lens", 10, 10, []Option{WithCamera(0, 1, 10)}, ErrInvalidCamera},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.w, tt.h, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("New error = %v, want %v", err, tt.want)
			}
			if p != nil {
				t.Error("New returned a pipeline alongside an error")
			}
		})
	}
}

func TestNewShowsPlaceholder(t *testing.T) {
	p := newPipeline(t, 32, 48)
	if p.Status() != StatusIdle {
		t.Errorf("Status = %v, want idle", p.Status())
	}
	assertUniform(t, displayRGBA(t, p), placeholder)
	if p.Atlas() != nil || p.Room() != nil {
		t.Error("buffers allocated before the first frame")
	}
}

func TestTickNotReady(t *testing.T) {
	p := newPipeline(t, 40, 80)
	src := newSource(solidFrame(16, 12, color.RGBA{R: 200, A: 255}))
	src.ready = false

	if got := p.Tick(src); got != StatusNotReady {
		t.Fatalf("Tick = %v, want not ready", got)
	}
	assertUniform(t, displayRGBA(t, p), placeholder)

	if got := p.Tick(nil); got != StatusNotReady {
		t.Errorf("Tick(nil) = %v, want not ready", got)
	}
	st := p.Stats()
	if st.Ticks != 2 || st.Skipped != 2 || st.Rendered != 0 || st.AtlasAllocs != 0 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestTickReadinessFlip(t *testing.T) {
	p := newPipeline(t, 40, 80)
	src := newSource(gradientFrame(16, 12))

	src.ready = false
	p.Tick(src)
	assertUniform(t, displayRGBA(t, p), placeholder)

	src.ready = true
	if got := p.Tick(src); got != StatusRendered {
		t.Fatalf("Tick = %v, want rendered", got)
	}
	img := displayRGBA(t, p)
	distinct := map[color.RGBA]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			distinct[img.RGBAAt(x, y)] = true
		}
	}
	if len(distinct) < 2 {
		t.Errorf("rendered display has %d distinct colors, want a tiled picture", len(distinct))
	}

	src.ready = false
	p.Tick(src)
	assertUniform(t, displayRGBA(t, p), placeholder)
}

func TestTickDegenerateSize(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"zero height", image.NewRGBA(image.Rect(0, 0, 8, 0))},
		{"zero width", image.NewRGBA(image.Rect(0, 0, 0, 8))},
		{"empty", image.NewRGBA(image.Rectangle{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, 20, 20)
			// Size claims a usable frame; the pixels decide.
			src := &fakeSource{ready: true, w: 8, h: 8, img: tt.img}
			if got := p.Tick(src); got != StatusDegenerate {
				t.Fatalf("Tick = %v, want degenerate", got)
			}
			assertUniform(t, displayRGBA(t, p), placeholder)
		})
	}
}

func TestTickNilFrame(t *testing.T) {
	p := newPipeline(t, 20, 20)
	src := &fakeSource{ready: true, w: 8, h: 8}
	if got := p.Tick(src); got != StatusNotReady {
		t.Fatalf("Tick with nil frame = %v, want not ready", got)
	}
	assertUniform(t, displayRGBA(t, p), placeholder)
}

// steppingClock advances by one frame period on every read.
type steppingClock struct {
	t    time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func TestTickReadsFrameOnce(t *testing.T) {
	// Neighbouring frames differ in size and every clock read moves the
	// sequence on, so the atlas must be sized from the frame it holds.
	wide := solidFrame(40, 30, color.RGBA{R: 255, A: 255})
	tall := solidFrame(30, 40, color.RGBA{B: 255, A: 255})
	clock := &steppingClock{t: time.Unix(0, 0), step: time.Second}
	src := source.NewSequence([]image.Image{wide, tall}, 1, source.WithClock(clock.Now))

	p := newPipeline(t, 80, 80)
	if got := p.Tick(src); got != StatusRendered {
		t.Fatalf("Tick = %v, want rendered", got)
	}

	tex := p.Atlas()
	b := tex.Bounds()
	var frame *image.RGBA
	switch {
	case b.Dx() == 120 && b.Dy() == 90:
		frame = wide
	case b.Dx() == 90 && b.Dy() == 120:
		frame = tall
	default:
		t.Fatalf("atlas = %v, want 120x90 or 90x120", b)
	}
	want := frame.RGBAAt(0, 0)
	cw, ch := b.Dx()/3, b.Dy()/3
	// Back cell corners and center all carry the frame: no letterbox.
	for _, pt := range []image.Point{
		{cw, ch}, {2*cw - 1, ch}, {cw, 2*ch - 1}, {2*cw - 1, 2*ch - 1}, {cw + cw/2, ch + ch/2},
	} {
		if got := tex.RGBAAt(pt.X, pt.Y); got != want {
			t.Errorf("atlas %v = %v, want %v", pt, got, want)
		}
	}
}

func TestTickPortraitViewport(t *testing.T) {
	// A 640×480 camera in an 800×1600 window. The room fills the whole
	// viewport, so with a solid frame every tile carries the frame color and
	// none comes from the background or an empty atlas cell.
	frameColor := color.RGBA{R: 180, G: 90, B: 30, A: 255}
	p := newPipeline(t, 800, 1600)
	if got := p.Tick(newSource(solidFrame(640, 480, frameColor))); got != StatusRendered {
		t.Fatalf("Tick = %v, want rendered", got)
	}

	g := p.Grid()
	if g.Cols != 64 || g.Rows != 128 {
		t.Fatalf("grid = %dx%d, want 64x128", g.Cols, g.Rows)
	}
	if got := g.At(0, 0); !near(got, frameColor, 1) {
		t.Errorf("tile (0,0) = %v, want frame color %v", got, frameColor)
	}
	for i, c := range g.Cells {
		if !near(c, frameColor, 1) {
			t.Fatalf("tile %d = %v, want frame color %v", i, c, frameColor)
		}
	}
	if b := p.Atlas().Bounds(); b.Dx() != 1920 || b.Dy() != 1440 {
		t.Errorf("atlas = %v, want 1920x1440", b)
	}
	if b := p.Room().Bounds(); b.Dx() != 800 || b.Dy() != 1600 {
		t.Errorf("room render = %v, want 800x1600", b)
	}
}

func TestDisplayMatchesGrid(t *testing.T) {
	const w, h = 90, 130
	p := newPipeline(t, w, h, WithGrid(9, 13))
	p.Tick(newSource(gradientFrame(32, 24)))

	g := p.Grid()
	img := displayRGBA(t, p)
	for ty := 0; ty < g.Rows; ty++ {
		for tx := 0; tx < g.Cols; tx++ {
			r := pixelate.TileRect(tx, ty, g.Cols, g.Rows, w, h)
			for _, pt := range []image.Point{r.Min, r.Max.Sub(image.Pt(1, 1))} {
				if got := img.RGBAAt(pt.X, pt.Y); !near(got, g.At(tx, ty), 2) {
					t.Fatalf("pixel %v = %v, want tile (%d,%d) color %v", pt, got, tx, ty, g.At(tx, ty))
				}
			}
		}
	}
}

func TestTickDeterministic(t *testing.T) {
	p := newPipeline(t, 120, 200)
	src := newSource(gradientFrame(40, 30))

	p.Tick(src)
	first := p.Grid().Clone()
	firstImg := displayRGBA(t, p)

	p.Tick(src)
	if !first.Equal(p.Grid()) {
		t.Error("static source and viewport produced different grids")
	}
	if !bytes.Equal(firstImg.Pix, displayRGBA(t, p).Pix) {
		t.Error("static source and viewport produced different displays")
	}
}

func TestTickReusesBuffers(t *testing.T) {
	p := newPipeline(t, 60, 90)
	small := newSource(gradientFrame(16, 12))
	for range 3 {
		p.Tick(small)
	}
	st := p.Stats()
	if st.AtlasAllocs != 1 || st.RoomAllocs != 1 {
		t.Errorf("after same-size ticks: atlas %d, room %d allocations, want 1, 1", st.AtlasAllocs, st.RoomAllocs)
	}

	p.Tick(newSource(gradientFrame(20, 10)))
	if got := p.Stats().AtlasAllocs; got != 2 {
		t.Errorf("after frame size change: atlas allocations = %d, want 2", got)
	}
	if b := p.Atlas().Bounds(); b.Dx() != 60 || b.Dy() != 30 {
		t.Errorf("atlas = %v, want 60x30", b)
	}
}

func TestResize(t *testing.T) {
	p := newPipeline(t, 60, 90)
	src := newSource(gradientFrame(16, 12))
	p.Tick(src)

	if err := p.Resize(90, 60); err != nil {
		t.Fatal(err)
	}
	if w, h := p.Size(); w != 90 || h != 60 {
		t.Errorf("Size = %dx%d, want 90x60", w, h)
	}
	assertUniform(t, displayRGBA(t, p), placeholder)

	if got := p.Tick(src); got != StatusRendered {
		t.Fatalf("Tick after resize = %v", got)
	}
	if b := p.Image().Bounds(); b.Dx() != 90 || b.Dy() != 60 {
		t.Errorf("display = %v, want 90x60", b)
	}
	if got := p.Stats().RoomAllocs; got != 2 {
		t.Errorf("room allocations = %d, want 2", got)
	}
	if g := p.Grid(); g.Cols != 64 || g.Rows != 128 {
		t.Errorf("grid = %dx%d, resize must not change it", g.Cols, g.Rows)
	}

	if err := p.Resize(0, 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 10) = %v, want ErrInvalidDimensions", err)
	}
	if err := p.Resize(90, 60); err != nil {
		t.Errorf("same-size Resize = %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	p := newPipeline(t, 64, 48)
	p.Tick(newSource(gradientFrame(16, 12)))

	path := filepath.Join(t.TempDir(), "room.png")
	if err := p.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Errorf("saved image bounds = %v", img.Bounds())
	}

	if err := p.SavePNG(filepath.Join(t.TempDir(), "missing", "room.png")); err == nil {
		t.Error("SavePNG into a missing directory should fail")
	}
}

func TestEncodePNG(t *testing.T) {
	p := newPipeline(t, 16, 16)
	var buf bytes.Buffer
	if err := p.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if r>>8 != 40 || g>>8 != 40 || b>>8 != 40 {
		t.Errorf("encoded placeholder pixel = %d,%d,%d, want 40,40,40", r>>8, g>>8, b>>8)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusIdle, "idle"},
		{StatusRendered, "rendered"},
		{StatusNotReady, "not ready"},
		{StatusDegenerate, "degenerate"},
		{StatusFailed, "failed"},
		{Status(42), "Status(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
