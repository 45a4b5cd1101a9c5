// Package output encodes rasters to files and writes the run manifest.
package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Format selects the on-disk image encoding.
type Format uint8

const (
	// FormatWebP is lossless WebP.
	FormatWebP Format = iota
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat is the inverse of String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webp":
		return FormatWebP, nil
	case "png":
		return FormatPNG, nil
	}
	return 0, fmt.Errorf("output: unknown format %q", s)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatWebP:
		if err := nativewebp.Encode(w, asNRGBA(img), nil); err != nil {
			return fmt.Errorf("output: webp encode: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("output: png encode: %w", err)
		}
	default:
		return fmt.Errorf("output: unsupported format %v", f)
	}
	return nil
}

// asNRGBA hands the WebP encoder the pixel layout it is fed elsewhere;
// gray fields are expanded to opaque RGB.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// WriteImage encodes img to path, creating parent directories.
func WriteImage(path string, img image.Image, f Format) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("output: close %s: %w", path, cerr)
		}
	}()
	return Encode(file, img, f)
}
