// Package config loads the optional YAML settings file shared by the
// pixelroom commands.
package config

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixelroom"
	"github.com/gogpu/pixelroom/internal/pixelate"
	"github.com/gogpu/pixelroom/internal/texture"
)

// Window sets the display size and title.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Source selects the camera frames. Frames win over Image; Pattern is the fallback.
type Source struct {
	Image   string  `yaml:"image"`   // still image path
	Frames  string  `yaml:"frames"`  // directory of frames
	FPS     float64 `yaml:"fps"`     // playback rate for frames
	Pattern bool    `yaml:"pattern"` // synthetic test card
	Animate bool    `yaml:"animate"` // move the test card ball
}

// Grid is the tile grid resolution.
type Grid struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// Room holds the box proportions relative to the shorter display side.
type Room struct {
	HeightRatio float64 `yaml:"height_ratio"`
	DepthRatio  float64 `yaml:"depth_ratio"`
	EdgeStretch bool    `yaml:"edge_stretch"`
}

// Camera holds the lens: vertical field of view in degrees and clip planes.
type Camera struct {
	FOVDeg float64 `yaml:"fov_deg"`
	Near   float64 `yaml:"near"`
	Far    float64 `yaml:"far"`
}

// Save sets where Space-key snapshots are written.
type Save struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// RGB is an opaque color written as [r, g, b].
type RGB [3]uint8

// Color converts c to an opaque color.RGBA.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Config is the settings file layout.
type Config struct {
	Window Window `yaml:"window"`
	Source Source `yaml:"source"`

	Grid        Grid   `yaml:"grid"`
	Filter      string `yaml:"filter"`   // box | nearest | bilinear | catmullrom
	Sampling    string `yaml:"sampling"` // nearest | bilinear
	Background  RGB    `yaml:"background"`
	Placeholder RGB    `yaml:"placeholder"`

	Room   Room   `yaml:"room"`
	Camera Camera `yaml:"camera"`
	Save   Save   `yaml:"save"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	d := pixelroom.DefaultConfig()
	return &Config{
		Window: Window{Width: 800, Height: 1600, Title: "pixelroom"},
		Source: Source{FPS: 30, Pattern: true, Animate: true},
		Grid:   Grid{Cols: d.GridCols, Rows: d.GridRows},

		Filter:      d.Filter.String(),
		Sampling:    d.Sampling.String(),
		Background:  RGB{d.Background.R, d.Background.G, d.Background.B},
		Placeholder: RGB{d.Placeholder.R, d.Placeholder.G, d.Placeholder.B},

		Room: Room{
			HeightRatio: d.Room.HeightRatio,
			DepthRatio:  d.Room.DepthRatio,
			EdgeStretch: d.Room.EdgeStretch,
		},
		Camera: Camera{
			FOVDeg: d.Room.FOV * 180 / math.Pi,
			Near:   d.Room.Near,
			Far:    d.Room.Far,
		},
		Save: Save{Dir: ".", Prefix: "pixelroom"},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// Options converts the pipeline settings to pixelroom options.
func (c *Config) Options() ([]pixelroom.Option, error) {
	f, err := pixelate.ParseFilter(c.Filter)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s, err := texture.ParseFilter(c.Sampling)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []pixelroom.Option{
		pixelroom.WithGrid(c.Grid.Cols, c.Grid.Rows),
		pixelroom.WithFilter(f),
		pixelroom.WithSampling(s),
		pixelroom.WithBackground(c.Background.Color()),
		pixelroom.WithPlaceholder(c.Placeholder.Color()),
		pixelroom.WithRoom(c.Room.HeightRatio, c.Room.DepthRatio),
		pixelroom.WithEdgeStretch(c.Room.EdgeStretch),
		pixelroom.WithCamera(c.Camera.FOVDeg*math.Pi/180, c.Camera.Near, c.Camera.Far),
	}, nil
}
