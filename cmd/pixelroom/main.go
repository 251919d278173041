// Command pixelroom shows a camera frame as a pixelated room in a window.
//
// The frame is copied onto the five inner walls of an open box, the box is
// rendered in perspective, and the picture is redrawn as a coarse grid of
// flat tiles. Press Space to save the display as a numbered PNG.
//
// Usage:
//
//	pixelroom [-config file.yaml] [-image photo.png | -frames dir | -pattern]
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gg/text"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pixelroom"
	"github.com/gogpu/pixelroom/internal/config"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := flags.Resolve(flag.CommandLine)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	setupLogging(*verbose)

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
	snap := pixelroom.NewSnapshotter(cfg.Save.Dir, cfg.Save.Prefix)
	hud := newHUD()

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Window.Title).
		WithSize(cfg.Window.Width, cfg.Window.Height).
		WithContinuousRender(false))

	var (
		canvas      *ggcanvas.Canvas
		animToken   *gogpu.AnimationToken
		saveRequest atomic.Bool
	)

	app.OnDraw(func(dc *gogpu.Context) {
		if animToken == nil {
			animToken = app.StartAnimation()
		}

		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}

		if canvas == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			canvas, err = ggcanvas.New(provider, w, h)
			if err != nil {
				log.Fatalf("Failed to create canvas: %v", err)
			}
		}
		if cw, ch := canvas.Size(); cw != w || ch != h {
			if err := canvas.Resize(w, h); err != nil {
				log.Printf("Canvas resize error: %v", err)
			}
		}
		if err := pipe.Resize(w, h); err != nil {
			log.Printf("Pipeline resize error: %v", err)
		}

		status := pipe.Tick(src)
		if saveRequest.Swap(false) {
			if path, err := snap.Save(pipe); err != nil {
				log.Printf("Save failed: %v", err)
				hud.message = "save failed"
			} else {
				hud.message = "saved " + filepath.Base(path)
			}
		}

		frame := gg.ImageBufFromImage(pipe.Image())
		if err := canvas.Draw(func(cc *gg.Context) {
			cc.DrawImage(frame, 0, 0)
			hud.draw(cc, status)
		}); err != nil {
			log.Printf("Draw error: %v", err)
		}
		if err := canvas.RenderTo(dc.AsTextureDrawer()); err != nil {
			log.Printf("Render error: %v", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key == gpucontext.KeySpace {
			saveRequest.Store(true)
		}
	})

	app.OnClose(func() {
		if animToken != nil {
			animToken.Stop()
		}
		if err := pipe.Close(); err != nil {
			log.Printf("Close error: %v", err)
		}
	})

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	pixelroom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// hud draws the save hint and the pipeline status over the tiles.
type hud struct {
	face    text.Face
	message string
}

func newHUD() *hud {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		log.Printf("HUD font unavailable: %v", err)
		return &hud{}
	}
	return &hud{face: src.Face(16)}
}

func (h *hud) draw(cc *gg.Context, status pixelroom.Status) {
	if h.face == nil {
		return
	}
	w := float64(cc.Width())
	line := "Space: save"
	if status != pixelroom.StatusRendered {
		line = fmt.Sprintf("waiting for camera (%s)", status)
	}
	if h.message != "" {
		line += "  |  " + h.message
	}

	cc.SetRGBA(0, 0, 0, 0.55)
	cc.DrawRectangle(0, 0, w, 28)
	_ = cc.Fill()

	cc.SetFont(h.face)
	cc.SetRGB(1, 1, 1)
	cc.DrawStringAnchored(line, w/2, 14, 0.5, 0.5)
}
