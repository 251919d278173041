// Command roomshot renders the pixelated room without a window and writes the
// display to a PNG file.
//
// Usage:
//
//	roomshot -image photo.png -output room.png
//	roomshot -pattern -ticks 30 -atlas atlas.png -room room-full.png
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/pixelroom"
	"github.com/gogpu/pixelroom/internal/config"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	var (
		output   = flag.String("output", "pixelroom.png", "output file")
		ticks    = flag.Int("ticks", 1, "pipeline ticks to run before saving")
		atlasOut = flag.String("atlas", "", "also write the texture atlas to this file")
		roomOut  = flag.String("room", "", "also write the full-resolution room render to this file")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := flags.Resolve(flag.CommandLine)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	pixelroom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	src, err := cfg.OpenSource()
	if err != nil {
		log.Fatalf("Failed to open frame source: %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	pipe, err := pixelroom.New(cfg.Window.Width, cfg.Window.Height, opts...)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}
	defer func() { _ = pipe.Close() }()

	var status pixelroom.Status
	for range max(1, *ticks) {
		status = pipe.Tick(src)
	}
	if status != pixelroom.StatusRendered {
		log.Printf("Last tick: %s, saving the placeholder", status)
	}

	if err := pipe.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	if *atlasOut != "" && pipe.Atlas() != nil {
		writePNG(*atlasOut, pipe.Atlas())
	}
	if *roomOut != "" && pipe.Room() != nil {
		writePNG(*roomOut, pipe.Room())
	}

	w, h := pipe.Size()
	st := pipe.Stats()
	log.Printf("Room saved to %s (%dx%d, %d/%d ticks rendered)\n", *output, w, h, st.Rendered, st.Ticks)
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}
