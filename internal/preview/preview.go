// Package preview renders small diagnostic images of masks and distance
// fields.
package preview

import (
	"image"
	"math"

	"github.com/nfnt/resize"

	"globe-sdf/internal/raster"
	"globe-sdf/internal/texture"
)

// Box is a square viewbox given as fractions of the source width (Left,
// Size) and height (Top).
type Box struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
	Size float64 `json:"size"`
}

// DefaultBox frames a coastline on a 2:1 world mask.
func DefaultBox() Box {
	return Box{Left: 0.46, Top: 0.18, Size: 0.04}
}

// Rect converts the box to pixels for a w x h source, clipped to it.
func (b Box) Rect(w, h int) image.Rectangle {
	side := max(int(float64(w)*b.Size), 1)
	x0 := int(float64(w) * b.Left)
	y0 := int(float64(h) * b.Top)
	return image.Rect(x0, y0, x0+side, y0+side).Intersect(image.Rect(0, 0, w, h))
}

// Viewbox crops box out of src and scales it to size x size with nearest
// neighbour, so single source pixels stay visible as blocks.
func Viewbox(src image.Image, box Box, size int) *image.NRGBA {
	full := texture.ToNRGBA(src)
	b := full.Bounds()
	r := box.Rect(b.Dx(), b.Dy()).Add(b.Min)
	if r.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}

	crop := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		si := full.PixOffset(r.Min.X, r.Min.Y+y)
		copy(crop.Pix[y*crop.Stride:y*crop.Stride+r.Dx()*4], full.Pix[si:si+r.Dx()*4])
	}

	return texture.ToNRGBA(resize.Resize(uint(size), uint(size), crop, resize.NearestNeighbor))
}

// Strata colours a distance field as contour bands: outside the shape the
// red channel saws from 0 up every strata units of normalized distance,
// inside the green channel does. Band edges are iso-distance lines.
func Strata(field *raster.Gray, strata float64) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, field.Width, field.Height))
	for i, p := range field.Pix {
		v := float64(p) / 255
		band := math.Min(math.Mod(v, strata)/0.1, 1)
		c := uint8(math.Round(band * 255))
		j := i * 4
		if v < 0.5 {
			out.Pix[j] = c
		} else {
			out.Pix[j+1] = c
		}
		out.Pix[j+3] = 255
	}
	return out
}
