package cubemap

import (
	"fmt"
	"strings"
)

// Filter names a sampling strategy so it can be picked from config.
type Filter uint8

const (
	// FilterNearest copies the closest pixel. One read per output pixel.
	FilterNearest Filter = iota

	// FilterBilinear blends the four surrounding pixels.
	FilterBilinear

	// FilterLanczos applies a radius-5 windowed sinc. Least aliasing,
	// slowest.
	FilterLanczos
)

func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	case FilterLanczos:
		return "lanczos"
	default:
		return fmt.Sprintf("Filter(%d)", uint8(f))
	}
}

// ParseFilter is the inverse of String.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return FilterNearest, nil
	case "bilinear", "linear":
		return FilterBilinear, nil
	case "lanczos", "sinc":
		return FilterLanczos, nil
	}
	return 0, fmt.Errorf("cubemap: unknown filter %q", s)
}

// Sampler returns the implementation for f. Unknown values fall back to
// nearest.
func (f Filter) Sampler() Sampler {
	switch f {
	case FilterBilinear:
		return Bilinear{}
	case FilterLanczos:
		return Lanczos{}
	default:
		return Nearest{}
	}
}
