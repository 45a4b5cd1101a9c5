package raster

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Channel selects which component of a colour image becomes a mask.
type Channel uint8

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	ChannelAlpha
	// ChannelLuma uses the ITU-R 601 luma of the un-premultiplied colour.
	ChannelLuma
)

func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelGreen:
		return "green"
	case ChannelBlue:
		return "blue"
	case ChannelAlpha:
		return "alpha"
	case ChannelLuma:
		return "luma"
	default:
		return fmt.Sprintf("Channel(%d)", uint8(c))
	}
}

// ParseChannel accepts the names returned by String, plus r/g/b/a.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ChannelRed, nil
	case "green", "g":
		return ChannelGreen, nil
	case "blue", "b":
		return ChannelBlue, nil
	case "alpha", "a":
		return ChannelAlpha, nil
	case "luma", "gray", "grey", "y":
		return ChannelLuma, nil
	}
	return 0, fmt.Errorf("raster: unknown channel %q", s)
}

// ExtractChannel copies one channel of img into a new Gray raster.
// NRGBA and Gray images take a direct path over Pix; everything else is
// converted pixel by pixel through color.NRGBAModel.
func ExtractChannel(img image.Image, ch Channel) *Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewGray(w, h)

	switch src := img.(type) {
	case *image.NRGBA:
		if ch == ChannelLuma {
			break
		}
		k := int(ch)
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := out.Pix[y*w : (y+1)*w]
			for x := range row {
				row[x] = src.Pix[off+x*4+k]
			}
		}
		return out
	case *image.Gray:
		if ch == ChannelAlpha {
			for i := range out.Pix {
				out.Pix[i] = 255
			}
			return out
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*w:(y+1)*w], src.Pix[off:off+w])
		}
		return out
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.Pix[y*w+x] = pick(c, ch)
		}
	}
	return out
}

func pick(c color.NRGBA, ch Channel) uint8 {
	switch ch {
	case ChannelRed:
		return c.R
	case ChannelGreen:
		return c.G
	case ChannelBlue:
		return c.B
	case ChannelAlpha:
		return c.A
	default:
		// Same weights as color.GrayModel, on straight colour.
		y := (19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16
		return uint8(y)
	}
}
