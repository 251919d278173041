// Package source provides frame sources for the pixelroom pipeline: still
// images, timed image sequences, a synthetic test card and a latest-frame slot
// for asynchronous producers such as a capture goroutine.
//
// Every source satisfies pixelroom.FrameSource.
package source

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Still serves the same image every tick.
type Still struct {
	img image.Image
}

// NewStill wraps img. A nil or empty image is never ready.
func NewStill(img image.Image) *Still {
	return &Still{img: img}
}

// LoadStill decodes a PNG, JPEG, WebP or BMP file.
func LoadStill(path string) (*Still, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return NewStill(img), nil
}

// Ready reports whether the image has any pixels.
func (s *Still) Ready() bool {
	return s.img != nil && !s.img.Bounds().Empty()
}

// Size returns the image size.
func (s *Still) Size() (width, height int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Frame returns the image.
func (s *Still) Frame() image.Image {
	return s.img
}

// imageExts lists the file extensions the decoders above accept.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
}

func isImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", path, err)
	}
	return img, nil
}
