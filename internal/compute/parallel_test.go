package compute

import (
	"math"
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64, 1000} {
		visited := make([]int32, n)
		ParallelFor(n, 1, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&visited[i], 1)
			}
		})
		for i, v := range visited {
			if v != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, v)
			}
		}
	}
}

func TestParallelForJoinsBeforeReturn(t *testing.T) {
	n := 10000
	out := make([]float64, n)
	ParallelFor(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = float64(i) * 2
		}
	})
	// every write must be observable immediately after the call
	for i := 0; i < n; i++ {
		if out[i] != float64(i)*2 {
			t.Fatalf("index %d not written before return", i)
		}
	}
}

func TestParallelForSerialBelowMinChunk(t *testing.T) {
	ran := 0
	ParallelFor(10, 100, func(start, end int) {
		ran++
		if start != 0 || end != 10 {
			t.Fatalf("serial path should get the whole range, got [%d,%d)", start, end)
		}
	})
	if ran != 1 {
		t.Fatalf("serial path should invoke fn once, got %d", ran)
	}
}

func TestMinFloat64(t *testing.T) {
	vals := []float64{5, 3, 9, -2, 7, 0, 11}
	got := MinFloat64(len(vals), 1, func(i int) float64 { return vals[i] })
	if got != -2 {
		t.Errorf("expected -2, got %g", got)
	}

	if !math.IsInf(MinFloat64(0, 1, func(i int) float64 { return 0 }), 1) {
		t.Error("empty range should give +inf")
	}
}

func TestMinFloat64MatchesSerial(t *testing.T) {
	n := 5000
	f := func(i int) float64 { return math.Sin(float64(i)) * float64(n-i) }

	SetWorkers(1)
	serial := MinFloat64(n, 1, f)
	SetWorkers(8)
	parallel := MinFloat64(n, 1, f)
	SetWorkers(0)

	if serial != parallel {
		t.Errorf("serial %g and parallel %g disagree", serial, parallel)
	}
}

func TestSumFloat64(t *testing.T) {
	n := 1000
	got := SumFloat64(n, 1, func(i int) float64 { return float64(i) })
	want := float64(n*(n-1)) / 2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %g, got %g", want, got)
	}
}

func TestSetWorkers(t *testing.T) {
	SetWorkers(3)
	if Workers() != 3 {
		t.Errorf("expected 3 workers, got %d", Workers())
	}
	SetWorkers(0)
	if Workers() < 1 {
		t.Error("reset should give at least one worker")
	}
}

func BenchmarkParallelFor(b *testing.B) {
	n := 100000
	out := make([]float64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParallelFor(n, 64, func(start, end int) {
			for j := start; j < end; j++ {
				out[j] = math.Sqrt(float64(j))
			}
		})
	}
}
