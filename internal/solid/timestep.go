package solid

import (
	"math"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
)

const (
	tinyAcc = 1e-15
	tinyDet = 1e-15
)

// AcousticDt returns the largest stable step for the body under the
// acoustic criterion: the step must resolve both the fastest particle
// against the sound speed and the strongest stress acceleration.
func AcousticDt(b *body.Body, cfl float64) float64 {
	h := b.Kern.H
	c := b.Mat.C0
	return cfl * compute.MinFloat64(b.N(), minParallel, func(i int) float64 {
		byAcc := math.Sqrt(h / (b.Acc[i].Len() + tinyAcc))
		byVel := h / (c + b.Vel[i].Len())
		return math.Min(byAcc, byVel)
	})
}
