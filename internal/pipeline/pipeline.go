// Package pipeline runs one input through the full chain: mask load, signed
// distance field, cube map reprojection, encoding and previews.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"globe-sdf/internal/cubemap"
	"globe-sdf/internal/logging"
	"globe-sdf/internal/mask"
	"globe-sdf/internal/output"
	"globe-sdf/internal/parallel"
	"globe-sdf/internal/preview"
	"globe-sdf/internal/raster"
	"globe-sdf/internal/sdf"
	"globe-sdf/internal/texture"
)

// Mode selects what the input image is.
type Mode uint8

const (
	// ModeSDF treats the input as a land/water mask: the SDF is computed
	// and the SDF itself is reprojected.
	ModeSDF Mode = iota
	// ModeColor reprojects the input colour panorama directly.
	ModeColor
)

func (m Mode) String() string {
	switch m {
	case ModeSDF:
		return "sdf"
	case ModeColor:
		return "color"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode is the inverse of String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sdf", "":
		return ModeSDF, nil
	case "color", "colour":
		return ModeColor, nil
	}
	return 0, fmt.Errorf("pipeline: unknown mode %q", s)
}

// Options are the parsed settings for one run.
type Options struct {
	Mode       Mode
	WorkWidth  int
	WorkHeight int
	Channel    raster.Channel
	// MinRegion removes islands and fills lakes smaller than this many
	// pixels before the field is built. 0 disables it.
	MinRegion int
	SDF       sdf.Options
	Filter    cubemap.Filter
	Format    output.Format
	Workers   int

	Preview     bool
	Viewbox     preview.Box
	PreviewSize int
	Strata      float64
}

// Stage is the wall time of one pipeline step.
type Stage struct {
	Name     string
	Duration time.Duration
}

// Result holds the outcome of writing one file.
type Result struct {
	Name    string
	Path    string
	Success bool
	Error   string
}

// Report summarizes a processed input. Entries carry image paths relative
// to the output directory.
type Report struct {
	Input   string
	Stages  []Stage
	Results []Result
	Entries []output.ManifestEntry
}

// Failed returns the results that did not succeed.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

type artifact struct {
	name   string
	kind   string
	face   cubemap.Face
	isFace bool
	img    image.Image
	format output.Format
}

// Process runs input through the pipeline and writes every artifact under
// outDir. Load, transform and projection failures abort and are returned;
// a failed file write is recorded in the report instead.
func Process(ctx context.Context, opts Options, input, outDir string) (*Report, error) {
	log := logging.Logger().With("input", input)
	rep := &Report{Input: input}
	workers := parallel.Workers(opts.Workers)

	stage := func(name string, start time.Time) {
		d := time.Since(start)
		rep.Stages = append(rep.Stages, Stage{Name: name, Duration: d})
		log.Info("stage done", "stage", name, "elapsed", d)
	}

	var (
		src       *raster.RGBA
		artifacts []artifact
		extra     []artifact
	)

	switch opts.Mode {
	case ModeSDF:
		t := time.Now()
		m, err := texture.Load(input, opts.WorkWidth, opts.WorkHeight, opts.Channel)
		if err != nil {
			return rep, err
		}
		stage("load", t)

		if opts.MinRegion > 0 {
			t = time.Now()
			var c mask.Cleaned
			m, c = mask.Despeckle(m, opts.MinRegion)
			log.Info("despeckled", "islands", c.Islands, "lakes", c.Lakes, "pixels", c.Pixels)
			stage("despeckle", t)
		}

		t = time.Now()
		so := opts.SDF
		so.Workers = workers
		field, err := sdf.Compute(m, so)
		if err != nil {
			return rep, err
		}
		stage("sdf", t)

		src = field.ToRGBA()
		artifacts = append(artifacts, artifact{name: "sdf", kind: "sdf", img: field.Image(), format: opts.Format})
		if opts.Preview {
			extra = previews(opts, m, field)
		}
	case ModeColor:
		t := time.Now()
		var err error
		src, err = texture.LoadRGBA(input, opts.WorkWidth, opts.WorkHeight)
		if err != nil {
			return rep, err
		}
		stage("load", t)
	default:
		return rep, fmt.Errorf("pipeline: unknown mode %v", opts.Mode)
	}

	t := time.Now()
	faces, err := cubemap.ProjectAll(ctx, src, opts.Filter.Sampler(), workers)
	if err != nil {
		return rep, fmt.Errorf("pipeline: project: %w", err)
	}
	stage("project", t)

	for _, f := range cubemap.Faces() {
		artifacts = append(artifacts, artifact{
			name: f.String(), kind: "face", face: f, isFace: true,
			img: faces[f].Image(), format: opts.Format,
		})
	}
	artifacts = append(artifacts, extra...)

	t = time.Now()
	write(ctx, rep, artifacts, input, outDir, workers)
	stage("write", t)

	if failed := rep.Failed(); len(failed) > 0 {
		log.Warn("some outputs failed", "failed", len(failed))
	}
	return rep, nil
}

func previews(opts Options, m, field *raster.Gray) []artifact {
	size := opts.PreviewSize
	if size <= 0 {
		size = 512
	}
	strata := opts.Strata
	if strata <= 0 {
		strata = 0.05
	}
	return []artifact{
		{name: "mask_viewbox", kind: "preview", img: preview.Viewbox(m.Image(), opts.Viewbox, size), format: output.FormatPNG},
		{name: "sdf_viewbox", kind: "preview", img: preview.Viewbox(field.Image(), opts.Viewbox, size), format: output.FormatPNG},
		{name: "sdf_strata", kind: "preview", img: preview.Viewbox(preview.Strata(field, strata), opts.Viewbox, size), format: output.FormatPNG},
	}
}

// write encodes artifacts concurrently. Each outcome lands in rep in the
// order the artifacts were given.
func write(ctx context.Context, rep *Report, artifacts []artifact, input, outDir string, workers int) {
	log := logging.Logger()
	results := make([]Result, len(artifacts))
	entries := make([]*output.ManifestEntry, len(artifacts))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, a := range artifacts {
		g.Go(func() error {
			file := a.name + a.format.Ext()
			p := filepath.Join(outDir, file)
			res := Result{Name: a.name, Path: p}

			var err error
			if err = ctx.Err(); err == nil {
				err = output.WriteImage(p, a.img, a.format)
			}
			if err != nil {
				res.Error = err.Error()
				log.Warn("write failed", "file", p, "err", err)
			} else {
				res.Success = true
				b := a.img.Bounds()
				e := &output.ManifestEntry{
					Input:  filepath.Base(input),
					Kind:   a.kind,
					Image:  file,
					Width:  b.Dx(),
					Height: b.Dy(),
				}
				if a.isFace {
					e.Face = a.face.String()
					e.GLTarget = a.face.GLTarget()
				}
				entries[i] = e
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	rep.Results = append(rep.Results, results...)
	for _, e := range entries {
		if e != nil {
			rep.Entries = append(rep.Entries, *e)
		}
	}
}
