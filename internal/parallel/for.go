// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalizes a worker count: values <= 0 mean GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For calls fn over contiguous chunks covering [0, n), one chunk per worker,
// and blocks until every chunk is done. Chunks never overlap, so fn may
// write to disjoint parts of a shared output without locking.
func For(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers = min(Workers(workers), n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
