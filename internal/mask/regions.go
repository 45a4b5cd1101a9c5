// Package mask cleans up land/water masks before distance fields are built.
package mask

import (
	"globe-sdf/internal/raster"
)

// Cleaned reports what Despeckle changed.
type Cleaned struct {
	Islands int // land regions removed
	Lakes   int // water regions filled
	Pixels  int // pixels rewritten
}

// Despeckle removes land regions smaller than minArea pixels and fills
// water regions smaller than minArea. A land region is an 8-connected run
// of pixels with any coverage (> 0), so antialiased rims go with their
// island; a water region is one of pixels below full coverage (< 255).
// Columns wrap around, since the left and right edges of an
// equirectangular mask meet. minArea <= 0 returns m unchanged.
func Despeckle(m *raster.Gray, minArea int) (*raster.Gray, Cleaned) {
	var c Cleaned
	if minArea <= 0 || len(m.Pix) == 0 {
		return m, c
	}
	out := &raster.Gray{Width: m.Width, Height: m.Height, Pix: append([]uint8(nil), m.Pix...)}

	c.Islands, c.Pixels = fillSmall(out, minArea, func(p uint8) bool { return p > 0 }, 0)
	lakes, px := fillSmall(out, minArea, func(p uint8) bool { return p < 255 }, 255)
	c.Lakes = lakes
	c.Pixels += px
	return out, c
}

// fillSmall labels 8-connected components of pixels matching in, and
// overwrites every component smaller than minArea with value. It returns
// the number of components and pixels rewritten.
func fillSmall(g *raster.Gray, minArea int, in func(uint8) bool, value uint8) (regions, pixels int) {
	w, h := g.Width, g.Height

	labels := make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var sizes []int

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}

	queue := make([]int, 0, 1024)
	for start := range g.Pix {
		if !in(g.Pix[start]) || labels[start] >= 0 {
			continue
		}
		id := int32(len(sizes))

		// BFS from this pixel
		queue = append(queue[:0], start)
		labels[start] = id
		size := 0
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			size++

			cy, cx := curr/w, curr%w
			for d := 0; d < 8; d++ {
				ny := cy + dy[d]
				if ny < 0 || ny >= h {
					continue
				}
				nx := (cx + dx[d] + w) % w
				ni := ny*w + nx
				if in(g.Pix[ni]) && labels[ni] < 0 {
					labels[ni] = id
					queue = append(queue, ni)
				}
			}
		}
		sizes = append(sizes, size)
	}

	for _, s := range sizes {
		if s < minArea {
			regions++
		}
	}
	if regions == 0 {
		return 0, 0
	}
	for i, l := range labels {
		if l >= 0 && sizes[l] < minArea {
			g.Pix[i] = value
			pixels++
		}
	}
	return regions, pixels
}
