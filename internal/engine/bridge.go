package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
	"github.com/erik-sundell/solidsph/internal/rigid"
)

const minParallel = 64

// Bridge couples one particle region to its rigid body: contact forces
// flow from the particles into the multibody state, and the advanced
// rigid kinematics flow back onto the particles.
type Bridge struct {
	sb  *body.Body
	rb  *rigid.Body
	idx []int

	force  mgl64.Vec2
	torque float64
}

func NewBridge(sb *body.Body, rb *rigid.Body, idx []int) *Bridge {
	return &Bridge{sb: sb, rb: rb, idx: idx}
}

func (br *Bridge) Body() *body.Body   { return br.sb }
func (br *Bridge) Rigid() *rigid.Body { return br.rb }

// LastForce returns the resultant applied by the most recent Step.
func (br *Bridge) LastForce() mgl64.Vec2 { return br.force }

// AggregateForce sums the region's contact forces and their torque
// about the current center of mass. The sum is sequential in index
// order, so it is exact and independent of the worker count.
func (br *Bridge) AggregateForce() (mgl64.Vec2, float64) {
	com := br.rb.COM()
	var force mgl64.Vec2
	torque := 0.0
	for _, i := range br.idx {
		f := br.sb.ContactForce[i]
		force = force.Add(f)
		r := br.sb.Pos[i].Sub(com)
		torque += r.X()*f.Y() - r.Y()*f.X()
	}
	return force, torque
}

// Impose clamps the region to the advanced rigid motion: positions
// follow the body transform, velocities the rigid velocity field, and
// normals rotate with the body.
func (br *Bridge) Impose() {
	rot, trans := br.rb.Transform()
	lin, ang := br.rb.Velocity()
	com := br.rb.COM()

	compute.ParallelFor(len(br.idx), minParallel, func(start, end int) {
		for n := start; n < end; n++ {
			i := br.idx[n]
			p := rot.Mul2x1(br.sb.Pos0[i]).Add(trans)
			br.sb.Pos[i] = p

			rad := p.Sub(com)
			br.sb.Vel[i] = lin.Add(mgl64.Vec2{-ang * rad.Y(), ang * rad.X()})
			br.sb.Normal[i] = rot.Mul2x1(br.sb.Normal0[i])
		}
	})
}

// Step runs one coupling cycle: aggregate the contact forces, hand
// them to the rigid body, advance it by dt and impose the result.
func (br *Bridge) Step(dt float64) error {
	force, torque := br.AggregateForce()
	br.force, br.torque = force, torque
	if err := br.rb.ApplyForce(force, torque); err != nil {
		return err
	}
	if err := br.rb.Advance(dt); err != nil {
		return err
	}
	br.Impose()
	return nil
}
