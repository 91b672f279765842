package contact

import (
	"math"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
	"github.com/erik-sundell/solidsph/internal/kernel"
	"github.com/erik-sundell/solidsph/internal/neighbor"
)

const minParallel = 64

// Pair holds the contact neighborhoods of Owner particles inside
// Source's support, with the Source indexed by a spatial grid. The
// kernel is the owner's; shell calibration constants are fixed at
// construction because they depend only on spacing.
type Pair struct {
	Owner  *body.Body
	Source *body.Body
	Rel    *neighbor.Relation
	grid   *neighbor.Grid

	offsetW     float64
	calibration float64
}

func NewPair(owner, source *body.Body) *Pair {
	p := &Pair{
		Owner:  owner,
		Source: source,
		Rel:    neighbor.NewContact(owner.N(), owner.Kern),
		grid:   neighbor.NewGrid(owner.Kern.Cutoff),
	}
	if source.Role == body.RoleShell {
		spacing := 0.5 * (owner.Dp + source.Dp)
		k := owner.Kern
		p.offsetW = k.W(spacing)
		overlap := kernel.GaussLegendre3(func(x float64) float64 {
			return math.Max(k.W(x)-p.offsetW, 0)
		}, 0, spacing)
		p.calibration = owner.Mat.Rho0 / (2*overlap + 1e-15)
	}
	p.Rebuild()
	return p
}

// Rebuild refreshes the source grid and every owner neighborhood from
// current positions. It runs every step whether or not anything moved.
func (p *Pair) Rebuild() {
	p.grid.Rebuild(p.Source.Pos)
	compute.ParallelFor(p.Owner.N(), minParallel, func(start, end int) {
		p.Rel.RebuildRange(p.Owner.Pos, p.Source.Pos, p.grid, start, end)
	})
}
