package solid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
)

const minParallel = 64

const correctionEps = 1e-15

// CorrectConfiguration computes the kernel correction matrix B on the
// reference configuration so that corrected gradients reproduce linear
// fields exactly. Runs once after Freeze, before the first step.
func CorrectConfiguration(b *body.Body) {
	rel := b.Inner
	compute.ParallelFor(b.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			hood := &rel.Hood[i]
			m := mgl64.Ident2().Mul(correctionEps)
			for n, j := range hood.J {
				w := -hood.DW[n] * b.Vol[j] * hood.R[n]
				e := hood.E[n]
				m = m.Add(e.OuterProd2(e).Mul(w))
			}
			b.B[i] = m.Inv()
		}
	})
}
