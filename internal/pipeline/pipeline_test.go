package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"globe-sdf/internal/cubemap"
	"globe-sdf/internal/output"
	"globe-sdf/internal/preview"
	"globe-sdf/internal/raster"
	"globe-sdf/internal/sdf"
)

// writeMask stores a w x h mask whose left half is land (red 255).
func writeMask(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if x < w/2 {
				c.R = 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	p := filepath.Join(dir, "mask.png")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func testOptions() Options {
	return Options{
		Mode:        ModeSDF,
		WorkWidth:   32,
		WorkHeight:  16,
		Channel:     raster.ChannelRed,
		SDF:         sdf.Options{Cutoff: 0.5, Radius: 4},
		Filter:      cubemap.FilterNearest,
		Format:      output.FormatPNG,
		Workers:     2,
		Viewbox:     preview.Box{Left: 0.25, Top: 0.25, Size: 0.25},
		PreviewSize: 16,
	}
}

func TestProcessSDF(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir, 32, 16)
	out := filepath.Join(dir, "out")

	opts := testOptions()
	opts.Preview = true
	rep, err := Process(context.Background(), opts, input, out)
	if err != nil {
		t.Fatal(err)
	}
	if failed := rep.Failed(); len(failed) != 0 {
		t.Fatalf("failed outputs: %+v", failed)
	}

	var kinds []string
	for _, e := range rep.Entries {
		kinds = append(kinds, e.Kind)
		if _, err := os.Stat(filepath.Join(out, e.Image)); err != nil {
			t.Errorf("manifest entry %s not on disk: %v", e.Image, err)
		}
	}
	want := []string{"sdf", "face", "face", "face", "face", "face", "face", "preview", "preview", "preview"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("entry kinds (-want +got):\n%s", diff)
	}

	sdfEntry := rep.Entries[0]
	if sdfEntry.Image != "sdf.png" || sdfEntry.Width != 32 || sdfEntry.Height != 16 {
		t.Errorf("sdf entry = %+v", sdfEntry)
	}
	for _, e := range rep.Entries[1:7] {
		if e.Width != 8 || e.Height != 8 || e.GLTarget == "" {
			t.Errorf("face entry = %+v", e)
		}
	}

	var names []string
	for _, s := range rep.Stages {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"load", "sdf", "project", "write"}, names); diff != "" {
		t.Errorf("stages (-want +got):\n%s", diff)
	}
}

func TestProcessSDFValues(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir, 32, 16)
	out := filepath.Join(dir, "out")

	if _, err := Process(context.Background(), testOptions(), input, out); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(out, "sdf.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	g := raster.ExtractChannel(img, raster.ChannelRed)
	// Land on the left reads high, water on the right reads low.
	if l, r := g.At(2, 8), g.At(29, 8); l != 255 || r != 0 {
		t.Errorf("far land = %d, far water = %d", l, r)
	}
}

func TestProcessColor(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir, 32, 16)
	opts := testOptions()
	opts.Mode = ModeColor
	opts.Preview = true

	rep, err := Process(context.Background(), opts, input, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Entries) != 6 {
		t.Fatalf("colour mode wrote %d entries, want the six faces only", len(rep.Entries))
	}
	for _, e := range rep.Entries {
		if e.Kind != "face" {
			t.Errorf("unexpected kind %q", e.Kind)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions()

	if _, err := Process(context.Background(), opts, filepath.Join(dir, "missing.png"), dir); err == nil {
		t.Error("missing input accepted")
	}

	input := writeMask(t, dir, 32, 16)
	opts.WorkWidth = 30
	if _, err := Process(context.Background(), opts, input, dir); !errors.Is(err, cubemap.ErrFaceSize) {
		t.Errorf("width 30: got %v, want ErrFaceSize", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts.WorkWidth = 32
	if _, err := Process(ctx, opts, input, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeSDF, ModeColor} {
		if got, err := ParseMode(m.String()); err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("depth"); err == nil {
		t.Error("ParseMode accepted depth")
	}
}

func TestProcessDespeckleStage(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir, 32, 16)
	opts := testOptions()
	opts.MinRegion = 4

	rep, err := Process(context.Background(), opts, input, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range rep.Stages {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"load", "despeckle", "sdf", "project", "write"}, names); diff != "" {
		t.Errorf("stages (-want +got):\n%s", diff)
	}
}
