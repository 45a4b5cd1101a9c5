package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/webp"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(40 * ((x + y) % 3))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: uint8(x * 9), A: 255})
		}
	}
	return img
}

func samePixels(t *testing.T, want *image.NRGBA, got image.Image) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds %v, want %v", got.Bounds(), want.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
			if w := want.NRGBAAt(x, y); g != w {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestEncodeLossless(t *testing.T) {
	img := checker(13, 7)

	var webpBuf bytes.Buffer
	if err := Encode(&webpBuf, img, FormatWebP); err != nil {
		t.Fatal(err)
	}
	decoded, err := webp.Decode(&webpBuf)
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	samePixels(t, img, decoded)

	var pngBuf bytes.Buffer
	if err := Encode(&pngBuf, img, FormatPNG); err != nil {
		t.Fatal(err)
	}
	decoded, err = png.Decode(&pngBuf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	samePixels(t, img, decoded)

	if err := Encode(&bytes.Buffer{}, img, Format(9)); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestWriteImageCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "face.png")
	if err := WriteImage(path, checker(4, 4), FormatPNG); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("stat %s: %v", path, err)
	}
}

func TestFormatNames(t *testing.T) {
	for _, f := range []Format{FormatWebP, FormatPNG} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v", f, got, err)
		}
	}
	if FormatWebP.Ext() != ".webp" || FormatPNG.Ext() != ".png" {
		t.Error("unexpected extensions")
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat accepted gif")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	entries := []ManifestEntry{
		{Input: "earth.png", Kind: "sdf", Image: "earth/sdf.webp", Width: 2048, Height: 1024},
		{Input: "earth.png", Kind: "face", Face: "pos_x", GLTarget: "TEXTURE_CUBE_MAP_POSITIVE_X", Image: "earth/pos_x.webp", Width: 512, Height: 512},
	}
	if err := WriteManifest(path, entries); err != nil {
		t.Fatal(err)
	}
	got, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}

	raw, _ := os.ReadFile(path)
	if bytes.Contains(raw, []byte(`"face": ""`)) {
		t.Error("empty face should be omitted")
	}
}
