// Package cubemap reprojects equirectangular panoramas onto the six faces
// of a cube map by inverse mapping every face pixel into the source.
package cubemap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"globe-sdf/internal/logging"
	"globe-sdf/internal/parallel"
	"globe-sdf/internal/raster"
)

// ErrFaceSize is returned when the source width does not split into four
// whole faces.
var ErrFaceSize = errors.New("cubemap: source width must be a positive multiple of 4")

// FaceSize returns the edge length of each face for a source srcW wide.
func FaceSize(srcW int) (int, error) {
	if srcW <= 0 || srcW%4 != 0 {
		return 0, fmt.Errorf("%w, got %d", ErrFaceSize, srcW)
	}
	return srcW / 4, nil
}

// Project renders one face from src. Rows of the face are split across
// workers (<= 0 means GOMAXPROCS). Output alpha is always 255.
func Project(src *raster.RGBA, face Face, s Sampler, workers int) (*raster.RGBA, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("cubemap: %w", err)
	}
	size, err := FaceSize(src.Width)
	if err != nil {
		return nil, err
	}
	if int(face) >= len(faceNames) {
		return nil, fmt.Errorf("cubemap: invalid face %d", uint8(face))
	}
	if s == nil {
		s = Nearest{}
	}

	out := raster.NewRGBA(size, size)
	parallel.For(size, workers, func(start, end int) {
		for py := start; py < end; py++ {
			for px := 0; px < size; px++ {
				sx, sy := SourceCoord(face, px, py, size, src.Width, src.Height)
				r, g, b := s.Sample(src, sx, sy)
				i := out.PixOffset(px, py)
				out.Pix[i] = r
				out.Pix[i+1] = g
				out.Pix[i+2] = b
				out.Pix[i+3] = 255
			}
		}
	})
	return out, nil
}

// ProjectAll renders all six faces concurrently, one task per face, each
// task splitting its rows over workers. Cancelling ctx stops faces that
// have not started; faces already running finish.
func ProjectAll(ctx context.Context, src *raster.RGBA, s Sampler, workers int) (map[Face]*raster.RGBA, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("cubemap: %w", err)
	}
	if _, err := FaceSize(src.Width); err != nil {
		return nil, err
	}

	log := logging.Logger()
	faces := Faces()
	perFace := max(parallel.Workers(workers)/len(faces), 1)

	var mu sync.Mutex
	out := make(map[Face]*raster.RGBA, len(faces))

	g, ctx := errgroup.WithContext(ctx)
	for _, face := range faces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			img, err := Project(src, face, s, perFace)
			if err != nil {
				return fmt.Errorf("face %s: %w", face, err)
			}
			log.Debug("face projected", "face", face.String(), "size", img.Width, "elapsed", time.Since(start))

			mu.Lock()
			out[face] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
