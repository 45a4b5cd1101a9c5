package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"globe-sdf/internal/batch"
	"globe-sdf/internal/config"
	"globe-sdf/internal/logging"
	"globe-sdf/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	input := flag.String("input", "", "Mask image, or a directory of masks")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	mode := flag.String("mode", "", "sdf (mask -> field -> faces) or color (panorama -> faces)")
	filter := flag.String("filter", "", "Face sampling filter: nearest, bilinear, lanczos")
	format := flag.String("format", "", "Output encoding: webp or png")
	workers := flag.Int("workers", 0, "Goroutines per input (default: NumCPU)")
	jobs := flag.Int("jobs", 0, "Inputs processed at once in directory mode (default: 1)")
	previews := flag.Bool("preview", false, "Also write viewbox and strata previews")
	verbose := flag.Bool("v", false, "Log per-face timings")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Input:     *input,
		OutputDir: *outputDir,
		Mode:      *mode,
		Filter:    *filter,
		Format:    *format,
		Workers:   *workers,
		Jobs:      *jobs,
		Preview:   *previews,
	})

	opts, err := cfg.Options()
	if errors.Is(err, config.ErrNoInput) {
		fmt.Fprintln(os.Stderr, "Error: no input. Use -input or config.json.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	idx, err := texture.BuildIndex(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing input: %v\n", err)
		os.Exit(1)
	}
	inputs := idx.Paths()
	if len(inputs) == 0 {
		fmt.Println("No images to process.")
		os.Exit(0)
	}

	fmt.Printf("globe-sdf: %s -> cube map (%s, %s)\n", opts.Mode, opts.Filter, opts.Format)
	fmt.Printf("Inputs: %d, Working size: %dx%d, Workers: %d, Jobs: %d\n",
		len(inputs), opts.WorkWidth, opts.WorkHeight, opts.Workers, cfg.Jobs)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		Options:   opts,
		OutputDir: cfg.OutputDir,
		Jobs:      cfg.Jobs,
	}, inputs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success := 0
	var failed []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed = append(failed, r)
		}
	}

	fmt.Printf("Processed: %d/%d\n", success, len(inputs))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
