package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"globe-sdf/internal/raster"
)

// Decode reads and decodes an image file in any registered format.
func Decode(path string) (image.Image, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, format, nil
}

// Load reads a mask image, resamples it to w x h when its size differs
// (w or h <= 0 keeps the native size) and extracts channel ch.
func Load(path string, w, h int, ch raster.Channel) (*raster.Gray, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	nrgba := Resize(ToNRGBA(img), w, h)
	return raster.ExtractChannel(nrgba, ch), nil
}

// LoadRGBA reads a colour image as an RGBA raster, resampled like Load.
func LoadRGBA(path string, w, h int) (*raster.RGBA, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return raster.FromNRGBA(Resize(ToNRGBA(img), w, h)), nil
}

// Resize scales img to w x h with Catmull-Rom. Returns img unchanged when
// it already has that size or when either dimension is <= 0.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToNRGBA converts any image to NRGBA format.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.CMYK:
		// Opaque sources: the standard converter is exact.
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
