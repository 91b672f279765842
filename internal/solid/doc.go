// Package solid advances SPH-discretized elastic solids on their
// reference-configuration neighborhoods.
//
// A body must be frozen and run through [CorrectConfiguration] before
// stepping. Each step then interleaves the two relaxation halves with
// damping and constraints:
//
//	relax.FirstHalf(dt)  // position half-step, stress, velocity full step
//	holder.Apply()
//	damping.Apply(dt)
//	holder.Apply()
//	relax.SecondHalf(dt) // position half-step, deformation rate update
//
// The deformation gradient lives on the reference configuration, so
// inner neighborhoods are never rebuilt; only the contact neighborhoods
// handled elsewhere follow the current positions.
//
// [Damping] is pairwise and momentum-conserving. Its pair sweep is
// split into conflict-free batches by a greedy edge coloring computed
// once at construction, which makes the parallel result independent of
// scheduling.
package solid
