package contact

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/compute"
)

// ApplyForce turns both sides' contact densities into a repulsive
// pressure force on the owner particles. The force overwrites
// ContactForce and accumulates into AccPrior; with no neighbors both
// stay untouched apart from the zero overwrite, so a contact-free step
// changes nothing.
//
// The pairwise term is antisymmetric under owner/source exchange:
// p* is shared, the volumes commute, and e_ij flips sign. The two
// directions of a couple therefore satisfy action-reaction exactly up
// to their independently rebuilt neighborhoods.
func (p *Pair) ApplyForce() {
	owner, src, rel := p.Owner, p.Source, p.Rel
	kOwner := owner.Mat.ContactStiffness()
	kSrc := src.Mat.ContactStiffness()
	compute.ParallelFor(owner.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			hood := &rel.Hood[i]
			pi := owner.ContactDensity[i] * kOwner
			var force mgl64.Vec2
			for n, j := range hood.J {
				pStar := 0.5 * (pi + src.ContactDensity[j]*kSrc)
				// dW < 0 inside the support, so the sign below repels
				force = force.Sub(hood.E[n].Mul(2 * pStar * owner.Vol[i] * src.Vol[j] * hood.DW[n]))
			}
			owner.ContactForce[i] = force
			owner.AccPrior[i] = owner.AccPrior[i].Add(force.Mul(1 / owner.Mass[i]))
		}
	})
}
