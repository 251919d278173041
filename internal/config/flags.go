package config

import (
	"errors"
	"flag"

	"github.com/gogpu/pixelroom"
	"github.com/gogpu/pixelroom/source"
)

// Flags binds the command-line flags shared by the commands. Flags that are
// set explicitly override the config file; the rest keep the file's values.
type Flags struct {
	path string
	v    Config
	set  map[string]func(*Config)
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{v: *Default()}
	d := &f.v
	fs.StringVar(&f.path, "config", "", "YAML settings file")

	fs.IntVar(&d.Window.Width, "width", d.Window.Width, "display width")
	fs.IntVar(&d.Window.Height, "height", d.Window.Height, "display height")
	fs.StringVar(&d.Source.Image, "image", d.Source.Image, "still image to use as the camera frame")
	fs.StringVar(&d.Source.Frames, "frames", d.Source.Frames, "directory of frames to play as the camera")
	fs.Float64Var(&d.Source.FPS, "fps", d.Source.FPS, "playback rate for -frames")
	fs.BoolVar(&d.Source.Pattern, "pattern", d.Source.Pattern, "use the synthetic test card when no image or frames are given")
	fs.BoolVar(&d.Source.Animate, "animate", d.Source.Animate, "animate the test card")
	fs.IntVar(&d.Grid.Cols, "cols", d.Grid.Cols, "tile grid columns")
	fs.IntVar(&d.Grid.Rows, "rows", d.Grid.Rows, "tile grid rows")
	fs.StringVar(&d.Filter, "filter", d.Filter, "downscale filter: box, nearest, bilinear, catmullrom")
	fs.StringVar(&d.Sampling, "sampling", d.Sampling, "face sampling: nearest, bilinear")
	fs.BoolVar(&d.Room.EdgeStretch, "stretch", d.Room.EdgeStretch, "smear frame edges along the walls")
	fs.StringVar(&d.Save.Dir, "save-dir", d.Save.Dir, "directory for saved displays")
	fs.StringVar(&d.Save.Prefix, "prefix", d.Save.Prefix, "file name prefix for saved displays")

	f.set = map[string]func(*Config){
		"width":    func(c *Config) { c.Window.Width = d.Window.Width },
		"height":   func(c *Config) { c.Window.Height = d.Window.Height },
		"image":    func(c *Config) { c.Source.Image = d.Source.Image },
		"frames":   func(c *Config) { c.Source.Frames = d.Source.Frames },
		"fps":      func(c *Config) { c.Source.FPS = d.Source.FPS },
		"pattern":  func(c *Config) { c.Source.Pattern = d.Source.Pattern },
		"animate":  func(c *Config) { c.Source.Animate = d.Source.Animate },
		"cols":     func(c *Config) { c.Grid.Cols = d.Grid.Cols },
		"rows":     func(c *Config) { c.Grid.Rows = d.Grid.Rows },
		"filter":   func(c *Config) { c.Filter = d.Filter },
		"sampling": func(c *Config) { c.Sampling = d.Sampling },
		"stretch":  func(c *Config) { c.Room.EdgeStretch = d.Room.EdgeStretch },
		"save-dir": func(c *Config) { c.Save.Dir = d.Save.Dir },
		"prefix":   func(c *Config) { c.Save.Prefix = d.Save.Prefix },
	}
	return f
}

// Resolve returns the effective settings after fs has been parsed: the
// config file (or the defaults) with explicitly set flags applied on top.
func (f *Flags) Resolve(fs *flag.FlagSet) (*Config, error) {
	if !fs.Parsed() {
		return nil, errors.New("config: flags not parsed")
	}
	c := Default()
	if f.path != "" {
		var err error
		if c, err = Load(f.path); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		if apply, ok := f.set[fl.Name]; ok {
			apply(c)
		}
	})
	return c, nil
}

// OpenSource opens the configured frame source. Frames take precedence over
// a still image; the test card is the fallback.
func (c *Config) OpenSource() (pixelroom.FrameSource, error) {
	switch {
	case c.Source.Frames != "":
		seq, err := source.LoadSequence(c.Source.Frames, c.Source.FPS)
		if err != nil {
			return nil, err
		}
		return seq, nil
	case c.Source.Image != "":
		still, err := source.LoadStill(c.Source.Image)
		if err != nil {
			return nil, err
		}
		return still, nil
	case c.Source.Pattern:
		var opts []source.PatternOption
		if c.Source.Animate {
			opts = append(opts, source.Animated())
		}
		return source.NewPattern(640, 480, opts...), nil
	default:
		return nil, errors.New("config: no frame source: set image, frames or pattern")
	}
}
