package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"globe-sdf/internal/cubemap"
	"globe-sdf/internal/output"
	"globe-sdf/internal/pipeline"
	"globe-sdf/internal/preview"
	"globe-sdf/internal/raster"
	"globe-sdf/internal/sdf"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{Input: "/data/earth.png"}
	cfg.Resolve(Flags{Workers: 3})

	got, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	want := pipeline.Options{
		Mode:        pipeline.ModeSDF,
		WorkWidth:   2048,
		WorkHeight:  1024,
		Channel:     raster.ChannelRed,
		SDF:         sdf.Options{Cutoff: 0.5, Radius: 20, Workers: 3},
		Filter:      cubemap.FilterNearest,
		Format:      output.FormatWebP,
		Workers:     3,
		Viewbox:     preview.DefaultBox(),
		PreviewSize: 512,
		Strata:      0.05,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadRelativePaths(t *testing.T) {
	p := writeConfig(t, `{
		"input": "masks/earth.png",
		"output_dir": "build",
		"filter": "lanczos",
		"format": "png",
		"radius": 8,
		"viewbox": {"left": 0.1, "top": 0.2, "size": 0.3}
	}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(Flags{})

	dir := filepath.Dir(p)
	if cfg.Input != filepath.Join(dir, "masks", "earth.png") {
		t.Errorf("Input = %q", cfg.Input)
	}
	if cfg.OutputDir != filepath.Join(dir, "build") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Filter != cubemap.FilterLanczos || opts.Format != output.FormatPNG {
		t.Errorf("filter/format = %v/%v", opts.Filter, opts.Format)
	}
	if opts.SDF.Radius != 8 || opts.SDF.Cutoff != 0.5 {
		t.Errorf("sdf options = %+v", opts.SDF)
	}
	if opts.Viewbox != (preview.Box{Left: 0.1, Top: 0.2, Size: 0.3}) {
		t.Errorf("viewbox = %+v", opts.Viewbox)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	p := writeConfig(t, `{"input": "a.png", "filter": "lanczos", "workers": 2}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(Flags{Input: "b.png", Filter: "bilinear", Workers: 5, Preview: true})

	if cfg.Input != "b.png" || cfg.Filter != "bilinear" || cfg.Workers != 5 || !cfg.Preview {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"no input", func(c *Config) { c.Input = "" }, ErrNoInput},
		{"width not a multiple of 4", func(c *Config) { c.WorkWidth = 1022 }, cubemap.ErrFaceSize},
		{"unknown filter", func(c *Config) { c.Filter = "cubic" }, nil},
		{"unknown format", func(c *Config) { c.Format = "jpeg" }, nil},
		{"unknown channel", func(c *Config) { c.Channel = "cyan" }, nil},
		{"unknown mode", func(c *Config) { c.Mode = "depth" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Input: "x.png"}
			cfg.Resolve(Flags{})
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("got %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeConfig(t, `{"radius": "wide"}`)); err == nil {
		t.Error("bad JSON accepted")
	}
}
