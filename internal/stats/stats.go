// Package stats summarizes the value distribution of masks and fields.
package stats

import (
	"gonum.org/v1/gonum/stat"

	"globe-sdf/internal/raster"
)

// Buckets is the number of histogram bins; each covers 16 values.
const Buckets = 16

// Summary describes the values of a single-channel raster.
type Summary struct {
	Width, Height int
	Min, Max      uint8
	Mean, StdDev  float64
	// Zero and Full count pixels at exactly 0 and 255.
	Zero, Full int
	// Boundary counts pixels in [BoundaryLo, BoundaryHi], the band around
	// the 128 iso-line of a distance field.
	Boundary  int
	Histogram [Buckets]int
}

const (
	BoundaryLo = 120
	BoundaryHi = 136
)

// Summarize scans g once. g must be valid.
func Summarize(g *raster.Gray) Summary {
	s := Summary{Width: g.Width, Height: g.Height, Min: 255}
	vals := make([]float64, len(g.Pix))
	for i, p := range g.Pix {
		vals[i] = float64(p)
		s.Min = min(s.Min, p)
		s.Max = max(s.Max, p)
		switch p {
		case 0:
			s.Zero++
		case 255:
			s.Full++
		}
		if p >= BoundaryLo && p <= BoundaryHi {
			s.Boundary++
		}
		s.Histogram[int(p)*Buckets/256]++
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	return s
}

// Binary reports the share of pixels that are exactly 0 or 255.
func (s Summary) Binary() float64 {
	n := s.Width * s.Height
	if n == 0 {
		return 0
	}
	return float64(s.Zero+s.Full) / float64(n)
}
