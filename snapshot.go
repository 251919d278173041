package pixelroom

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Snapshotter saves the display to numbered PNG files named
// <Prefix>-NNN.png in Dir, never overwriting an existing file.
type Snapshotter struct {
	Dir    string
	Prefix string

	next int
}

// NewSnapshotter returns a snapshotter writing into dir. An empty prefix
// becomes "pixelroom".
func NewSnapshotter(dir, prefix string) *Snapshotter {
	if prefix == "" {
		prefix = "pixelroom"
	}
	return &Snapshotter{Dir: dir, Prefix: prefix}
}

// Save writes p's display to the next free file name and returns the path.
// A failed save leaves the number free for the next attempt.
func (s *Snapshotter) Save(p *Pipeline) (string, error) {
	path, err := s.nextPath()
	if err != nil {
		return "", err
	}
	if err := p.SavePNG(path); err != nil {
		return "", err
	}
	s.next++
	return path, nil
}

// nextPath finds the first unused name at or after s.next and leaves s.next
// pointing at it.
func (s *Snapshotter) nextPath() (string, error) {
	for ; s.next < 100000; s.next++ {
		path := filepath.Join(s.Dir, fmt.Sprintf("%s-%03d.png", s.Prefix, s.next))
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("pixelroom: snapshot %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("pixelroom: no free snapshot name for %s in %s", s.Prefix, s.Dir)
}
