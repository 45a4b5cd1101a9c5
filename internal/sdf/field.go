// Package sdf builds signed distance fields from antialiased masks using a
// separable Euclidean distance transform.
package sdf

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"globe-sdf/internal/raster"
)

// Options controls how distances are mapped to bytes.
type Options struct {
	// Cutoff is the normalized value assigned to the boundary (0.5 -> 128).
	Cutoff float64
	// Radius is the distance in pixels over which the field ramps from
	// the boundary value to saturation.
	Radius float64
	// Workers bounds the goroutines used per pass; <= 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns cutoff 0.5, radius 20.
func DefaultOptions() Options {
	return Options{
		Cutoff:  0.5,
		Radius:  20,
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Energy builds the outer and inner source grids from a mask.
//
// outer is 0 on fully covered pixels, Inf on empty ones and the squared
// sub-pixel offset (0.5 - a)^2 on partially covered ones; inner is the
// mirror image. Transforming them yields the distance to the shape and the
// distance to the background respectively.
func Energy(mask *raster.Gray) (outer, inner []float32) {
	outer = make([]float32, len(mask.Pix))
	inner = make([]float32, len(mask.Pix))
	for i, p := range mask.Pix {
		switch p {
		case 255:
			outer[i] = 0
			inner[i] = Inf
		case 0:
			outer[i] = Inf
			inner[i] = 0
		default:
			a := float64(p) / 255
			o := math.Max(0, 0.5-a)
			n := math.Max(0, a-0.5)
			outer[i] = float32(o * o)
			inner[i] = float32(n * n)
		}
	}
	return outer, inner
}

// Compute returns the signed distance field of mask: 128 on the boundary,
// rising towards 255 inside the shape and falling towards 0 outside,
// saturating Radius*(1-Cutoff) pixels away.
func Compute(mask *raster.Gray, opts Options) (*raster.Gray, error) {
	if err := mask.Validate(); err != nil {
		return nil, fmt.Errorf("sdf: %w", err)
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("sdf: radius must be positive, got %g", opts.Radius)
	}

	w, h := mask.Width, mask.Height
	outer, inner := Energy(mask)

	// The two grids are independent; split the worker budget between them.
	workers := max(opts.Workers/2, 1)
	if opts.Workers <= 0 {
		workers = max(runtime.GOMAXPROCS(0)/2, 1)
	}
	var g errgroup.Group
	g.Go(func() error {
		transformInPlace(outer, w, h, true, workers)
		return nil
	})
	g.Go(func() error {
		transformInPlace(inner, w, h, true, workers)
		return nil
	})
	_ = g.Wait()

	out := raster.NewGray(w, h)
	for i := range out.Pix {
		out.Pix[i] = Quantize(Combine(outer[i], inner[i], opts))
	}
	return out, nil
}

// Combine maps an outer/inner distance pair to a normalized field value.
// The result is not clamped.
func Combine(outer, inner float32, opts Options) float64 {
	return 1 - ((float64(outer)-float64(inner))/opts.Radius + opts.Cutoff)
}

// Quantize scales a normalized value to a byte, clamping to [0,255] and
// rounding half to even.
func Quantize(v float64) uint8 {
	v *= 255
	switch {
	case !(v > 0): // also catches NaN
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}
