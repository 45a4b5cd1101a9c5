// Package batch runs the pipeline over many inputs with a worker pool.
package batch

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"globe-sdf/internal/logging"
	"globe-sdf/internal/pipeline"
	"globe-sdf/internal/texture"
)

// Config holds all shared settings for a batch run.
type Config struct {
	Options   pipeline.Options
	OutputDir string
	// Jobs is the number of inputs processed concurrently. Each input
	// still uses Options.Workers goroutines internally.
	Jobs int
	// Progress is how often the pool logs its progress; 0 means 2s.
	Progress time.Duration
}

// Result holds the outcome of processing one input.
type Result struct {
	Name    string
	Input   string
	OutDir  string
	Files   int
	Success bool
	Error   string
	Report  *pipeline.Report
}

// Run processes all inputs using a worker pool. Each input writes into
// its own directory under OutputDir named after the file stem. Results
// come back in input order.
func Run(ctx context.Context, cfg Config, inputs []string) []Result {
	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64
	log := logging.Logger()

	start := time.Now()
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "per_sec", rate)
				}
			}
		}
	}()

	jobs := max(min(cfg.Jobs, total), 1)
	idxChan := make(chan int, jobs*2)
	var wg sync.WaitGroup

	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				results[idx] = processInput(ctx, cfg, inputs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range inputs {
		idxChan <- i
	}
	close(idxChan)

	wg.Wait()
	close(done)

	return results
}

func processInput(ctx context.Context, cfg Config, input string) Result {
	name := texture.Stem(input)
	res := Result{
		Name:   name,
		Input:  input,
		OutDir: filepath.Join(cfg.OutputDir, name),
	}
	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	rep, err := pipeline.Process(ctx, cfg.Options, input, res.OutDir)
	res.Report = rep
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Files = len(rep.Entries)
	if failed := rep.Failed(); len(failed) > 0 {
		res.Error = failed[0].Name + ": " + failed[0].Error
		return res
	}
	res.Success = true
	return res
}
