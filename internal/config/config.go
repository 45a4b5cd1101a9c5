package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"globe-sdf/internal/cubemap"
	"globe-sdf/internal/output"
	"globe-sdf/internal/pipeline"
	"globe-sdf/internal/preview"
	"globe-sdf/internal/raster"
	"globe-sdf/internal/sdf"
)

// ErrNoInput is returned by Validate when no input path is configured.
var ErrNoInput = errors.New("config: no input given")

// Config holds all configurable paths and generation settings.
type Config struct {
	// Paths
	Input     string `json:"input"`
	OutputDir string `json:"output_dir"`

	// Mask and field
	Mode       string  `json:"mode"`
	WorkWidth  int     `json:"work_width"`
	WorkHeight int     `json:"work_height"`
	Channel    string  `json:"channel"`
	MinRegion  int     `json:"min_region"`
	Cutoff     float64 `json:"cutoff"`
	Radius     float64 `json:"radius"`

	// Reprojection and encoding
	Filter  string `json:"filter"`
	Format  string `json:"format"`
	Workers int    `json:"workers"`
	// Jobs is how many inputs of a directory run are processed at once.
	Jobs int `json:"jobs"`

	// Previews
	Preview     bool         `json:"preview"`
	Viewbox     *preview.Box `json:"viewbox"`
	PreviewSize int          `json:"preview_size"`
	Strata      float64      `json:"strata"`

	// dir is the directory of the loaded file; relative paths in the file
	// resolve against it.
	dir string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input     string
	OutputDir string
	Mode      string
	Filter    string
	Format    string
	Workers   int
	Jobs      int
	Preview   bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// Paths from the file are relative to the file, flags to the cwd.
	if c.dir != "" {
		if c.Input != "" && !filepath.IsAbs(c.Input) {
			c.Input = filepath.Join(c.dir, c.Input)
		}
		if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.dir, c.OutputDir)
		}
	}

	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Jobs > 0 {
		c.Jobs = flags.Jobs
	}
	if flags.Preview {
		c.Preview = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.Mode == "" {
		c.Mode = pipeline.ModeSDF.String()
	}
	if c.WorkWidth <= 0 || c.WorkHeight <= 0 {
		c.WorkWidth, c.WorkHeight = 2048, 1024
	}
	if c.Channel == "" {
		c.Channel = raster.ChannelRed.String()
	}
	def := sdf.DefaultOptions()
	if c.Cutoff <= 0 {
		c.Cutoff = def.Cutoff
	}
	if c.Radius <= 0 {
		c.Radius = def.Radius
	}
	if c.Filter == "" {
		c.Filter = cubemap.FilterNearest.String()
	}
	if c.Format == "" {
		c.Format = output.FormatWebP.String()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Jobs <= 0 {
		c.Jobs = 1
	}
	if c.Viewbox == nil {
		box := preview.DefaultBox()
		c.Viewbox = &box
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
	if c.Strata <= 0 {
		c.Strata = 0.05
	}
}

// Validate reports whether the config can drive a run.
func (c *Config) Validate() error {
	_, err := c.Options()
	return err
}

// Options parses the config into pipeline options. Call Resolve first.
func (c *Config) Options() (pipeline.Options, error) {
	if c.Input == "" {
		return pipeline.Options{}, ErrNoInput
	}
	if c.WorkWidth%4 != 0 {
		return pipeline.Options{}, fmt.Errorf("config: work_width %d: %w", c.WorkWidth, cubemap.ErrFaceSize)
	}

	mode, err := pipeline.ParseMode(c.Mode)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config: %w", err)
	}
	ch, err := raster.ParseChannel(c.Channel)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config: %w", err)
	}
	filter, err := cubemap.ParseFilter(c.Filter)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config: %w", err)
	}
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config: %w", err)
	}

	opts := pipeline.Options{
		Mode:       mode,
		WorkWidth:  c.WorkWidth,
		WorkHeight: c.WorkHeight,
		Channel:    ch,
		MinRegion:  c.MinRegion,
		SDF: sdf.Options{
			Cutoff:  c.Cutoff,
			Radius:  c.Radius,
			Workers: c.Workers,
		},
		Filter:      filter,
		Format:      format,
		Workers:     c.Workers,
		Preview:     c.Preview,
		PreviewSize: c.PreviewSize,
		Strata:      c.Strata,
	}
	if c.Viewbox != nil {
		opts.Viewbox = *c.Viewbox
	}
	return opts, nil
}
