package raster

import (
	"errors"
	"fmt"
	"image"
)

// ErrShape is returned when a pixel buffer does not match its declared size.
var ErrShape = errors.New("raster: buffer length does not match dimensions")

// Gray is a single-channel raster held as a flat slice for cache locality.
// Used for masks and signed distance fields.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8 // len = W*H
}

// RGBA is an interleaved 4-channel raster.
type RGBA struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, len = W*H*4
}

// NewGray allocates a zeroed single-channel raster.
func NewGray(w, h int) *Gray {
	return &Gray{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// NewRGBA allocates a zeroed RGBA raster.
func NewRGBA(w, h int) *RGBA {
	return &RGBA{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// Validate checks that the buffer length matches Width*Height.
func (g *Gray) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil gray raster", ErrShape)
	}
	if g.Width <= 0 || g.Height <= 0 || len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: gray %dx%d with %d bytes", ErrShape, g.Width, g.Height, len(g.Pix))
	}
	return nil
}

// Validate checks that the buffer length matches Width*Height*4.
func (r *RGBA) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil rgba raster", ErrShape)
	}
	if r.Width <= 0 || r.Height <= 0 || len(r.Pix) != r.Width*r.Height*4 {
		return fmt.Errorf("%w: rgba %dx%d with %d bytes", ErrShape, r.Width, r.Height, len(r.Pix))
	}
	return nil
}

// At returns the value at (x, y). No bounds checks beyond the slice's own.
func (g *Gray) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (r *RGBA) PixOffset(x, y int) int {
	return (y*r.Width + x) * 4
}

// ToRGBA embeds the gray values into R, G and B with alpha 255, the layout
// a texture upload or image viewer expects.
func (g *Gray) ToRGBA() *RGBA {
	out := NewRGBA(g.Width, g.Height)
	for i, v := range g.Pix {
		j := i * 4
		out.Pix[j] = v
		out.Pix[j+1] = v
		out.Pix[j+2] = v
		out.Pix[j+3] = 255
	}
	return out
}

// Image returns an *image.Gray sharing the raster's pixels.
func (g *Gray) Image() *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// Image returns an *image.NRGBA sharing the raster's pixels.
func (r *RGBA) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// FromNRGBA copies an NRGBA image into a tightly packed RGBA raster.
// Sub-images are handled via their Rect and Stride.
func FromNRGBA(img *image.NRGBA) *RGBA {
	b := img.Bounds()
	out := NewRGBA(b.Dx(), b.Dy())
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*rowLen:(y+1)*rowLen], img.Pix[si:si+rowLen])
	}
	return out
}
