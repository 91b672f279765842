// Package compute provides the parallel loop primitive used by the
// per-particle passes.
//
// Every helper splits the index range into contiguous chunks, runs the
// chunks on worker goroutines, and joins them before returning. Nothing
// escapes the call:
//
//	compute.ParallelFor(body.N(), 64, func(start, end int) {
//		for i := start; i < end; i++ {
//			// touch state of particle i only
//		}
//	})
//
// Callers may write any per-index state from inside the closure as long
// as distinct indices own distinct state. Reductions go through
// [MinFloat64] and [SumFloat64], which keep per-worker partials and
// merge them after the join.
package compute
