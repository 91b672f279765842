package neighbor

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/kernel"
)

// guards the unit-vector division for coincident particles; the pair then
// contributes no direction, which is the required degenerate-geometry clamp
const tinySeparation = 1e-15

// Neighborhood is one particle's neighbor list with kernel data evaluated at
// the positions the relation was built from.
type Neighborhood struct {
	J  []int        // neighbor indices into the source body
	R  []float64    // pair distance
	E  []mgl64.Vec2 // unit vector from neighbor toward owner
	W  []float64    // kernel value
	DW []float64    // kernel derivative dW/dr
}

// Pair is an unordered particle pair drawn from an inner relation.
type Pair struct {
	I, J  int
	R, DW float64
}

// Relation is the neighbor topology of an owner body against a source body.
// An inner relation (owner == source) is built once on reference positions
// and never rebuilt; contact relations are rebuilt wholesale every step.
type Relation struct {
	Kern kernel.Wendland
	Hood []Neighborhood
	self bool
}

// NewInner builds the fixed reference-configuration relation of one body.
func NewInner(pos []mgl64.Vec2, k kernel.Wendland) *Relation {
	rel := &Relation{Kern: k, Hood: make([]Neighborhood, len(pos)), self: true}
	grid := NewGrid(k.Cutoff)
	grid.Rebuild(pos)
	rel.RebuildRange(pos, pos, grid, 0, len(pos))
	return rel
}

// NewContact prepares an empty owner-against-source relation; Rebuild fills it.
func NewContact(ownerCount int, k kernel.Wendland) *Relation {
	return &Relation{Kern: k, Hood: make([]Neighborhood, ownerCount)}
}

// Rebuild recomputes every neighborhood from current positions. The grid must
// already be rebuilt over the source positions.
func (rel *Relation) Rebuild(owner, source []mgl64.Vec2, grid *Grid) {
	rel.RebuildRange(owner, source, grid, 0, len(owner))
}

// RebuildRange recomputes the neighborhoods of owner particles [start, end),
// so callers can shard the rebuild across workers.
func (rel *Relation) RebuildRange(owner, source []mgl64.Vec2, grid *Grid, start, end int) {
	for i := start; i < end; i++ {
		h := &rel.Hood[i]
		h.J = h.J[:0]
		h.R = h.R[:0]
		h.E = h.E[:0]
		h.W = h.W[:0]
		h.DW = h.DW[:0]

		pi := owner[i]
		grid.ForEach(pi, func(j int) {
			if rel.self && j == i {
				return
			}
			d := pi.Sub(source[j])
			r := d.Len()
			if r >= rel.Kern.Cutoff {
				return
			}
			h.J = append(h.J, j)
			h.R = append(h.R, r)
			h.E = append(h.E, d.Mul(1/(r+tinySeparation)))
			h.W = append(h.W, rel.Kern.W(r))
			h.DW = append(h.DW, rel.Kern.GradW(r))
		})
	}
}

// Pairs lists each unordered pair of an inner relation exactly once, in the
// relation's canonical order.
func (rel *Relation) Pairs() []Pair {
	var pairs []Pair
	for i := range rel.Hood {
		h := &rel.Hood[i]
		for n, j := range h.J {
			if j > i {
				pairs = append(pairs, Pair{I: i, J: j, R: h.R[n], DW: h.DW[n]})
			}
		}
	}
	return pairs
}
