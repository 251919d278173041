package source

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrNoFrames is returned when a sequence directory holds no decodable images.
var ErrNoFrames = errors.New("source: no frames")

// Sequence plays a list of frames at a fixed rate, looping forever. The
// current frame is chosen from the time elapsed since the sequence was
// created, so a slow consumer skips frames rather than falling behind.
type Sequence struct {
	frames []image.Image
	fps    float64
	now    func() time.Time
	start  time.Time
}

// SequenceOption configures a Sequence.
type SequenceOption func(*Sequence)

// WithClock replaces the wall clock, for tests and offline rendering.
func WithClock(now func() time.Time) SequenceOption {
	return func(s *Sequence) {
		s.now = now
	}
}

// NewSequence plays frames at fps frames per second. A non-positive fps
// holds the first frame.
func NewSequence(frames []image.Image, fps float64, opts ...SequenceOption) *Sequence {
	s := &Sequence{frames: frames, fps: fps, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

// LoadSequence decodes every image in dir, in file name order.
func LoadSequence(dir string, fps float64, opts ...SequenceOption) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isImageFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make([]image.Image, 0, len(names))
	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	return NewSequence(frames, fps, opts...), nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.frames)
}

// Index returns the position of the current frame.
func (s *Sequence) Index() int {
	if len(s.frames) == 0 || s.fps <= 0 {
		return 0
	}
	elapsed := s.now().Sub(s.start).Seconds()
	if elapsed < 0 {
		return 0
	}
	return int(elapsed*s.fps) % len(s.frames)
}

// Ready reports whether the sequence has frames.
func (s *Sequence) Ready() bool {
	return len(s.frames) > 0
}

// Size returns the size of the current frame.
func (s *Sequence) Size() (width, height int) {
	img := s.Frame()
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Frame returns the current frame, or nil for an empty sequence.
func (s *Sequence) Frame() image.Image {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[s.Index()]
}
