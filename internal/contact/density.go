package contact

import (
	"math"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
)

// UpdateDensity writes the owner's contact density from the current
// neighborhoods. The result is zero for particles with no neighbor in
// the source body.
func (p *Pair) UpdateDensity() {
	if p.Source.Role == body.RoleShell {
		p.shellDensity()
		return
	}
	p.volumetricDensity()
}

func (p *Pair) volumetricDensity() {
	owner, src, rel := p.Owner, p.Source, p.Rel
	compute.ParallelFor(owner.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			hood := &rel.Hood[i]
			sigma := 0.0
			for n, j := range hood.J {
				sigma += hood.W[n] * src.Mass[j]
			}
			owner.ContactDensity[i] = sigma
		}
	})
}

// shellDensity measures the overlap with a single-layer source by the
// distance to the shell plane along the owner particle's normal,
// projected on the raw separation rather than the center distance. A
// gap at exactly rest spacing cancels against the kernel offset. The
// calibration factor makes a flat resolved shell at rest spacing
// produce the solid's rest density.
func (p *Pair) shellDensity() {
	owner, src, rel := p.Owner, p.Source, p.Rel
	k := rel.Kern
	compute.ParallelFor(owner.N(), minParallel, func(start, end int) {
		for i := start; i < end; i++ {
			hood := &rel.Hood[i]
			sigma := 0.0
			for _, j := range hood.J {
				d := math.Abs(owner.Pos[i].Sub(src.Pos[j]).Dot(owner.Normal[i]))
				if w := k.W(d) - p.offsetW; w > 0 {
					sigma += w * src.Vol[j]
				}
			}
			owner.ContactDensity[i] = sigma * p.calibration
		}
	})
}
