package solid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
)

// Constraint pins a particle subset by zeroing velocity and
// acceleration. Applied after each pass that writes velocities, it
// keeps the subset exactly at its reference position.
type Constraint struct {
	b   *body.Body
	idx []int
}

func NewConstraint(b *body.Body, idx []int) *Constraint {
	return &Constraint{b: b, idx: idx}
}

func (c *Constraint) Apply() {
	compute.ParallelFor(len(c.idx), minParallel, func(start, end int) {
		for k := start; k < end; k++ {
			i := c.idx[k]
			c.b.Vel[i] = mgl64.Vec2{}
			c.b.Acc[i] = mgl64.Vec2{}
		}
	})
}
