package texture

import (
	"image"
	"image/color"
	"testing"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

// splitTexture returns a 4×2 texture: left half red, right half blue.
func splitTexture() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.SetRGBA(x, y, red)
			} else {
				img.SetRGBA(x, y, blue)
			}
		}
	}
	return img
}

func TestSampleNearest(t *testing.T) {
	s := NewSampler(splitTexture(), image.Rectangle{}, Nearest)
	tests := []struct {
		name string
		u, v float64
		want color.RGBA
	}{
		{"top-left", 0, 0, red},
		{"left half", 0.49, 0.5, red},
		{"right half", 0.51, 0.5, blue},
		{"bottom-right edge clamps", 1, 1, blue},
		{"beyond left clamps", -3, 0.5, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sample(tt.u, tt.v); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestSampleBilinearBlendsAcrossSeam(t *testing.T) {
	s := NewSampler(splitTexture(), image.Rectangle{}, Bilinear)

	// u = 0.5 sits exactly between texel 1 (red) and texel 2 (blue).
	got := s.Sample(0.5, 0.5)
	if got.R < 126 || got.R > 129 || got.B < 126 || got.B > 129 {
		t.Errorf("Sample(0.5, 0.5) = %v, want an even red/blue mix", got)
	}

	// Texel centers are exact.
	if got := s.Sample(0.125, 0.25); got != red {
		t.Errorf("Sample at texel center = %v, want %v", got, red)
	}
}

func TestSampleClipPreventsBleed(t *testing.T) {
	tex := splitTexture()
	left := image.Rect(0, 0, 2, 2)

	for _, f := range []Filter{Nearest, Bilinear} {
		t.Run(f.String(), func(t *testing.T) {
			s := NewSampler(tex, left, f)
			for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
				if got := s.Sample(u, 0.5); got != red {
					t.Errorf("Sample(%v, 0.5) = %v, want %v (clip leaked)", u, got, red)
				}
			}
		})
	}
}

func TestSampleOffsetBounds(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	base.SetRGBA(2, 2, green)
	sub := base.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	s := NewSampler(sub, image.Rectangle{}, Nearest)
	if got := s.Sample(0, 0); got != green {
		t.Errorf("Sample(0, 0) on sub-image = %v, want %v", got, green)
	}
}

func TestSampleEmptyClip(t *testing.T) {
	s := NewSampler(splitTexture(), image.Rect(10, 10, 20, 20), Bilinear)
	if got := s.Sample(0.5, 0.5); got != (color.RGBA{}) {
		t.Errorf("Sample with clip outside texture = %v, want transparent", got)
	}
}

func TestParseFilter(t *testing.T) {
	for _, f := range []Filter{Nearest, Bilinear} {
		got, err := ParseFilter(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFilter(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFilter("bicubic"); err == nil {
		t.Error("ParseFilter(bicubic) should fail")
	}
}
