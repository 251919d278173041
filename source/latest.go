package source

import (
	"image"
	"sync"
)

// Latest holds the most recent frame published by another goroutine. The
// pipeline polls it without waiting: until the first Publish, or after Reset,
// it is not ready.
//
// Published images must not be modified afterwards; publish a new image
// instead.
type Latest struct {
	mu    sync.Mutex
	img   image.Image
	count uint64
}

// Publish makes img the current frame. Publishing nil is the same as Reset.
func (l *Latest) Publish(img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.img = img
	if img != nil {
		l.count++
	}
}

// Reset drops the current frame.
func (l *Latest) Reset() {
	l.Publish(nil)
}

// Published returns how many frames have been published.
func (l *Latest) Published() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Ready reports whether a non-empty frame is available.
func (l *Latest) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.img != nil && !l.img.Bounds().Empty()
}

// Size returns the size of the current frame.
func (l *Latest) Size() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.img == nil {
		return 0, 0
	}
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}

// Frame returns the current frame.
func (l *Latest) Frame() image.Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.img
}
