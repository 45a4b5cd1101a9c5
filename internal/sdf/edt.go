package sdf

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"globe-sdf/internal/parallel"
	"globe-sdf/internal/raster"
)

// Inf stands in for an infinite squared distance. Large enough to dominate
// any real distance on images up to ~1e9 pixels across, small enough that
// 1e20 + q*q never overflows float32.
const Inf = 1e20

// scratch holds the per-goroutine buffers for one axis length.
// f: input profile, d: output, v: parabola apexes, z: breakpoints.
type scratch struct {
	f, d []float32
	v    []int
	z    []float64
}

func newScratch(n int) *scratch {
	return &scratch{
		f: make([]float32, n),
		d: make([]float32, n),
		v: make([]int, n),
		z: make([]float64, n+1),
	}
}

// Transform1D returns the 1D squared distance transform of f: for every q,
// min over p of (q-p)^2 + f[p]. f is not modified.
func Transform1D(f []float32) []float32 {
	s := newScratch(len(f))
	copy(s.f, f)
	s.transform(len(f))
	return s.d
}

// transform computes the lower envelope of the parabolas rooted at s.f[:n]
// (Felzenszwalb & Huttenlocher) and samples it into s.d[:n].
func (s *scratch) transform(n int) {
	if n == 0 {
		return
	}
	f, d, v, z := s.f, s.d, s.v, s.z

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		fq := float64(f[q]) + float64(q*q)
		var sq float64
		for {
			p := v[k]
			sq = (fq - (float64(f[p]) + float64(p*p))) / float64(2*q-2*p)
			if k == 0 || !(sq <= z[k]) {
				break
			}
			k--
		}
		k++
		v[k] = q
		z[k] = sq
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := q - v[k]
		d[q] = float32(dq*dq) + f[v[k]]
	}
}

// SquaredEDT returns the 2D squared Euclidean distance transform of grid.
// Cells equal to 0 are sources, cells at Inf are empty.
func SquaredEDT(grid []float32, w, h int) ([]float32, error) {
	return transform2D(grid, w, h, false, 0)
}

// EDT is SquaredEDT followed by a square root, i.e. Euclidean distances.
func EDT(grid []float32, w, h int) ([]float32, error) {
	return transform2D(grid, w, h, true, 0)
}

// transform2D runs the column pass then the row pass over a copy of grid.
// Columns (then rows) are split across workers; each worker owns its
// scratch so no state is shared between goroutines.
func transform2D(grid []float32, w, h int, root bool, workers int) ([]float32, error) {
	if w <= 0 || h <= 0 || len(grid) != w*h {
		return nil, fmt.Errorf("%w: grid %dx%d with %d cells", raster.ErrShape, w, h, len(grid))
	}
	out := make([]float32, len(grid))
	copy(out, grid)
	transformInPlace(out, w, h, root, workers)
	return out, nil
}

func transformInPlace(data []float32, w, h int, root bool, workers int) {
	parallel.For(w, workers, func(start, end int) {
		s := newScratch(h)
		for x := start; x < end; x++ {
			for y := 0; y < h; y++ {
				s.f[y] = data[y*w+x]
			}
			s.transform(h)
			for y := 0; y < h; y++ {
				data[y*w+x] = s.d[y]
			}
		}
	})

	parallel.For(h, workers, func(start, end int) {
		s := newScratch(w)
		for y := start; y < end; y++ {
			row := data[y*w : (y+1)*w]
			copy(s.f, row)
			s.transform(w)
			if root {
				for x := range row {
					row[x] = math32.Sqrt(s.d[x])
				}
			} else {
				copy(row, s.d[:w])
			}
		}
	})
}
