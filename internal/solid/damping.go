package solid

import (
	"math/rand"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
	"github.com/erik-sundell/solidsph/internal/neighbor"
)

// Damping applies momentum-conserving pairwise velocity damping over
// the body's inner pairs. Each activation damps every pair once; a
// seeded coin decides per step whether the pass runs at all, with the
// effective step scaled up to keep the mean dissipation at eta.
//
// Pairs are grouped at construction into batches that share no
// particle, so a batch can run in parallel and the outcome depends only
// on the batch order, which is fixed.
type Damping struct {
	b       *body.Body
	eta     float64
	ratio   float64
	rng     *rand.Rand
	batches [][]neighbor.Pair
}

func NewDamping(b *body.Body, eta, ratio float64, seed int64) *Damping {
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return &Damping{
		b:       b,
		eta:     eta,
		ratio:   ratio,
		rng:     rand.New(rand.NewSource(seed)),
		batches: colorPairs(b.Inner.Pairs(), b.N()),
	}
}

// Batches exposes the conflict-free pair grouping for inspection.
func (d *Damping) Batches() [][]neighbor.Pair { return d.batches }

// Resync fast-forwards the decision stream past the given number of
// steps. A restored run then draws the same coins the uninterrupted
// run would have, without serializing generator state.
func (d *Damping) Resync(steps int) {
	if d.ratio >= 1 {
		return
	}
	for i := 0; i < steps; i++ {
		d.rng.Float64()
	}
}

// Apply damps all pairs with the step scaled by the activation ratio,
// or does nothing this step. The decision stream is deterministic for a
// given seed.
func (d *Damping) Apply(dt float64) {
	if d.ratio < 1 && d.rng.Float64() >= d.ratio {
		return
	}
	scaled := dt / d.ratio
	for _, batch := range d.batches {
		batch := batch
		compute.ParallelFor(len(batch), minParallel, func(start, end int) {
			for k := start; k < end; k++ {
				d.dampPair(batch[k], scaled)
			}
		})
	}
}

// dampPair solves the two-particle damping exactly over dt. The
// coefficient is negative inside the kernel support, which keeps the
// denominator positive and the update unconditionally stable.
func (d *Damping) dampPair(p neighbor.Pair, dt float64) {
	b := d.b
	i, j := p.I, p.J
	mi, mj := b.Mass[i], b.Mass[j]

	coeff := 2 * d.eta * p.DW * b.Vol[i] * b.Vol[j] * dt / p.R
	inc := b.Vel[i].Sub(b.Vel[j]).Mul(coeff / (mi*mj - coeff*(mi+mj)))
	b.Vel[i] = b.Vel[i].Add(inc.Mul(mj))
	b.Vel[j] = b.Vel[j].Sub(inc.Mul(mi))
}

// colorPairs greedily assigns each pair the first batch where neither
// endpoint is taken. The input order is canonical, so the grouping is
// reproducible across runs.
func colorPairs(pairs []neighbor.Pair, n int) [][]neighbor.Pair {
	var batches [][]neighbor.Pair
	var busy [][]bool
	for _, p := range pairs {
		c := 0
		for ; c < len(batches); c++ {
			if !busy[c][p.I] && !busy[c][p.J] {
				break
			}
		}
		if c == len(batches) {
			batches = append(batches, nil)
			busy = append(busy, make([]bool, n))
		}
		batches[c] = append(batches[c], p)
		busy[c][p.I] = true
		busy[c][p.J] = true
	}
	return batches
}
