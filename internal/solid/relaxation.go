package solid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
)

// Relaxation advances the elastic state of one body with the two-phase
// kick-drift scheme. FirstHalf and SecondHalf each run their sweeps as
// separate joined passes, so neighbor reads never race with writes.
type Relaxation struct {
	b       *body.Body
	invRho0 float64
}

func NewRelaxation(b *body.Body) *Relaxation {
	return &Relaxation{b: b, invRho0: 1 / b.Mat.Rho0}
}

// FirstHalf drifts positions and the deformation gradient half a step,
// evaluates the constitutive stress, and kicks velocities a full step
// with the stress divergence plus the prior acceleration.
func (r *Relaxation) FirstHalf(dt float64) {
	b := r.b
	rel := b.Inner
	half := 0.5 * dt

	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			b.Pos[i] = b.Pos[i].Add(b.Vel[i].Mul(half))
			b.F[i] = b.F[i].Add(b.FDot[i].Mul(half))
			det := b.F[i].Det()
			if det < tinyDet {
				det = tinyDet
			}
			b.Rho[i] = b.Mat.Rho0 / det
			stress := b.Mat.SecondPK(b.F[i]).Add(b.Mat.DampingStress(b.F[i], b.FDot[i], b.Kern.H))
			b.PK1B[i] = b.F[i].Mul2(stress).Mul2(b.B[i])
		}
	})

	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			hood := &rel.Hood[i]
			var acc mgl64.Vec2
			for n, j := range hood.J {
				scale := hood.DW[n] * b.Vol[j]
				acc = acc.Add(b.PK1B[i].Add(b.PK1B[j]).Mul2x1(hood.E[n].Mul(scale)))
			}
			b.Acc[i] = acc.Mul(r.invRho0)
		}
	})

	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			b.Vel[i] = b.Vel[i].Add(b.Acc[i].Add(b.AccPrior[i]).Mul(dt))
		}
	})
}

// SecondHalf drifts positions the remaining half step and rebuilds the
// deformation gradient rate from the updated velocity field.
func (r *Relaxation) SecondHalf(dt float64) {
	b := r.b
	rel := b.Inner
	half := 0.5 * dt

	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			b.Pos[i] = b.Pos[i].Add(b.Vel[i].Mul(half))
		}
	})

	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			hood := &rel.Hood[i]
			var rate mgl64.Mat2
			for n, j := range hood.J {
				grad := hood.E[n].Mul(hood.DW[n] * b.Vol[j])
				rate = rate.Add(b.Vel[j].Sub(b.Vel[i]).OuterProd2(grad))
			}
			b.FDot[i] = rate.Mul2(b.B[i])
		}
	})

	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			b.F[i] = b.F[i].Add(b.FDot[i].Mul(half))
		}
	})
}
