package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"globe-sdf/internal/raster"
	"globe-sdf/internal/sdf"
	"globe-sdf/internal/stats"
	"globe-sdf/internal/texture"
)

func main() {
	channel := flag.String("channel", "red", "Channel to inspect: red, green, blue, alpha, luma")
	width := flag.Int("width", 0, "Resample to this width first (0: native)")
	height := flag.Int("height", 0, "Resample to this height first (0: native)")
	field := flag.Bool("sdf", false, "Compute the signed distance field and inspect it too")
	radius := flag.Float64("radius", 20, "SDF radius in pixels")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sdfinspect [flags] image")
		os.Exit(2)
	}
	path := flag.Arg(0)

	ch, err := raster.ParseChannel(*channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	mask, err := texture.Load(path, *width, *height, ch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	report(path+" ("+ch.String()+")", stats.Summarize(mask))

	if !*field {
		return
	}
	opts := sdf.DefaultOptions()
	opts.Radius = *radius
	out, err := sdf.Compute(mask, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s := stats.Summarize(out)
	fmt.Println()
	report("sdf", s)
	fmt.Printf("  boundary [%d,%d]: %d pixels\n", stats.BoundaryLo, stats.BoundaryHi, s.Boundary)
}

func report(name string, s stats.Summary) {
	n := s.Width * s.Height
	fmt.Printf("%s: %dx%d\n", name, s.Width, s.Height)
	fmt.Printf("  range=[%d,%d] mean=%.2f stddev=%.2f\n", s.Min, s.Max, s.Mean, s.StdDev)
	fmt.Printf("  zero=%d full=%d binary=%.1f%%\n", s.Zero, s.Full, 100*s.Binary())

	peak := 0
	for _, c := range s.Histogram {
		peak = max(peak, c)
	}
	for i, c := range s.Histogram {
		bar := 0
		if peak > 0 {
			bar = c * 40 / peak
		}
		fmt.Printf("  %3d-%3d %8d %5.1f%% %s\n",
			i*16, i*16+15, c, 100*float64(c)/float64(max(n, 1)), strings.Repeat("#", bar))
	}
}
