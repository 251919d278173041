package pixelate

import (
	"fmt"

	"golang.org/x/image/draw"
)

// Filter selects the downscale kernel.
type Filter uint8

const (
	// Box averages every source pixel a tile covers, weighted by the covered
	// area. This is the default and is exact for fractional tile edges.
	Box Filter = iota

	// Nearest takes the single source pixel nearest each tile center.
	Nearest

	// BiLinear uses golang.org/x/image/draw.BiLinear.
	BiLinear

	// CatmullRom uses golang.org/x/image/draw.CatmullRom.
	CatmullRom
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case Box:
		return "box"
	case Nearest:
		return "nearest"
	case BiLinear:
		return "bilinear"
	case CatmullRom:
		return "catmullrom"
	default:
		return fmt.Sprintf("Filter(%d)", uint8(f))
	}
}

// ParseFilter parses a filter name as produced by String.
func ParseFilter(s string) (Filter, error) {
	for _, f := range []Filter{Box, Nearest, BiLinear, CatmullRom} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("pixelate: unknown filter %q", s)
}

// scaler returns the x/image kernel for f, or nil for Box.
func (f Filter) scaler() draw.Scaler {
	switch f {
	case Nearest:
		return draw.NearestNeighbor
	case BiLinear:
		return draw.BiLinear
	case CatmullRom:
		return draw.CatmullRom
	default:
		return nil
	}
}
