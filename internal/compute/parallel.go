package compute

import (
	"math"
	"runtime"
	"sync"
)

var workers = runtime.NumCPU()

// SetWorkers fixes the number of goroutines used by subsequent calls.
// Values below one reset to the machine default.
func SetWorkers(n int) {
	if n < 1 {
		n = runtime.NumCPU()
	}
	workers = n
}

func Workers() int { return workers }

// ParallelFor runs fn over [0,n) split into one contiguous chunk per
// worker and returns after all chunks finished. Ranges below minChunk
// run on the calling goroutine.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers == 1 || n < minChunk {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}

// MinFloat64 returns the smallest fn(i) over [0,n). Each worker keeps a
// local minimum; the partials are merged after the join, so fn must not
// depend on evaluation order.
func MinFloat64(n, minChunk int, fn func(i int) float64) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	if workers == 1 || n < minChunk {
		min := math.Inf(1)
		for i := 0; i < n; i++ {
			if v := fn(i); v < min {
				min = v
			}
		}
		return min
	}

	partial := make([]float64, workers)
	for w := range partial {
		partial[w] = math.Inf(1)
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			min := math.Inf(1)
			for i := start; i < end; i++ {
				if v := fn(i); v < min {
					min = v
				}
			}
			partial[worker] = min
		}(w, start, end)
	}

	wg.Wait()

	min := math.Inf(1)
	for _, v := range partial {
		if v < min {
			min = v
		}
	}
	return min
}

// SumFloat64 adds fn(i) over [0,n) with per-worker partials. The merge
// order over partials is fixed, but chunk boundaries shift with the
// worker count, so the rounding of the result may differ between runs
// with different SetWorkers values.
func SumFloat64(n, minChunk int, fn func(i int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if workers == 1 || n < minChunk {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += fn(i)
		}
		return sum
	}

	partial := make([]float64, workers)

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			sum := 0.0
			for i := start; i < end; i++ {
				sum += fn(i)
			}
			partial[worker] = sum
		}(w, start, end)
	}

	wg.Wait()

	sum := 0.0
	for _, v := range partial {
		sum += v
	}
	return sum
}
