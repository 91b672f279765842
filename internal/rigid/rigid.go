package rigid

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/integrate"
)

var (
	ErrNotRealized = errors.New("rigid: topology not realized")
	ErrRealized    = errors.New("rigid: topology already realized")
)

type Mobility int

const (
	// Free moves in all three planar degrees of freedom.
	Free Mobility = iota
	// Slider translates along a fixed axis; rotation is locked and
	// forces perpendicular to the axis are absorbed by the joint.
	Slider
)

type Phase int

const (
	Uninitialized Phase = iota
	TopologyRealized
	Advancing
)

// Spec fixes the mobility and environment of a rigid body.
type Spec struct {
	Mobility Mobility
	Axis     mgl64.Vec2 // slider direction
	Gravity  mgl64.Vec2 // uniform gravity acceleration
	Accuracy float64    // integrator tolerance
}

// Body is a rigid body whose mass properties come from a particle
// region. It never reverts a phase: mass properties are computed once
// at topology realization and the generalized state only moves forward
// through Advance.
type Body struct {
	spec Spec

	masses    []float64
	positions []mgl64.Vec2

	mass    float64
	inertia float64
	com0    mgl64.Vec2

	phase Phase
	state integrate.State
	time  float64

	force  mgl64.Vec2
	torque float64

	stepper *integrate.RK45
}

// New captures the reference masses and positions of the coupled
// region. Nothing is derived until RealizeTopology.
func New(masses []float64, positions []mgl64.Vec2, spec Spec) *Body {
	if spec.Accuracy <= 0 {
		spec.Accuracy = 1e-3
	}
	b := &Body{
		spec:      spec,
		masses:    append([]float64(nil), masses...),
		positions: append([]mgl64.Vec2(nil), positions...),
		stepper:   integrate.NewRK45(),
	}
	return b
}

// RealizeTopology derives mass, center of mass and polar inertia from
// the captured region and allocates the generalized state at rest.
func (b *Body) RealizeTopology() error {
	if b.phase != Uninitialized {
		return ErrRealized
	}
	if len(b.masses) == 0 || len(b.masses) != len(b.positions) {
		return fmt.Errorf("rigid: region of %d masses and %d positions", len(b.masses), len(b.positions))
	}

	for i, m := range b.masses {
		b.mass += m
		b.com0 = b.com0.Add(b.positions[i].Mul(m))
	}
	if b.mass <= 0 {
		return fmt.Errorf("rigid: nonpositive total mass %g", b.mass)
	}
	b.com0 = b.com0.Mul(1 / b.mass)
	for i, m := range b.masses {
		r := b.positions[i].Sub(b.com0)
		b.inertia += m * r.Dot(r)
	}

	switch b.spec.Mobility {
	case Slider:
		if b.spec.Axis.Len() == 0 {
			return fmt.Errorf("rigid: slider needs a nonzero axis")
		}
		b.spec.Axis = b.spec.Axis.Normalize()
		b.state = make(integrate.State, 2)
	case Free:
		b.state = make(integrate.State, 6)
	default:
		return fmt.Errorf("rigid: unknown mobility %d", b.spec.Mobility)
	}

	b.phase = TopologyRealized
	return nil
}

// ApplyForce replaces the discrete force and torque consumed by the
// next Advance. The previous values are dropped, not accumulated.
func (b *Body) ApplyForce(force mgl64.Vec2, torque float64) error {
	if b.phase == Uninitialized {
		return ErrNotRealized
	}
	b.force = force
	b.torque = torque
	return nil
}

// Advance integrates the body across exactly dt under gravity and the
// current discrete force, held constant for the interval.
func (b *Body) Advance(dt float64) error {
	if b.phase == Uninitialized {
		return ErrNotRealized
	}
	b.phase = Advancing

	next, err := b.stepper.AdvanceBy(dynamics{b}, b.state, b.time, dt, b.spec.Accuracy)
	if err != nil {
		return err
	}
	b.state = next
	b.time += dt
	return nil
}

// Transform returns the affine map of the body: x = R*x0 + t for any
// point x0 given in the reference configuration.
func (b *Body) Transform() (mgl64.Mat2, mgl64.Vec2) {
	switch b.spec.Mobility {
	case Slider:
		return mgl64.Ident2(), b.spec.Axis.Mul(b.state[0])
	default:
		r := mgl64.Rotate2D(b.state[2])
		com := b.com0.Add(mgl64.Vec2{b.state[0], b.state[1]})
		return r, com.Sub(r.Mul2x1(b.com0))
	}
}

// Velocity returns the linear velocity of the center of mass and the
// angular velocity.
func (b *Body) Velocity() (mgl64.Vec2, float64) {
	switch b.spec.Mobility {
	case Slider:
		return b.spec.Axis.Mul(b.state[1]), 0
	default:
		return mgl64.Vec2{b.state[3], b.state[4]}, b.state[5]
	}
}

// COM returns the current center of mass in world coordinates.
func (b *Body) COM() mgl64.Vec2 {
	switch b.spec.Mobility {
	case Slider:
		return b.com0.Add(b.spec.Axis.Mul(b.state[0]))
	default:
		return b.com0.Add(mgl64.Vec2{b.state[0], b.state[1]})
	}
}

func (b *Body) Mass() float64    { return b.mass }
func (b *Body) Inertia() float64 { return b.inertia }
func (b *Body) Phase() Phase     { return b.phase }

// State returns a copy of the generalized coordinates, for checkpoints.
func (b *Body) State() []float64 {
	return append([]float64(nil), b.state...)
}

// Restore overwrites the generalized coordinates and internal time from
// a checkpoint. Topology must already be realized.
func (b *Body) Restore(state []float64, t float64) error {
	if b.phase == Uninitialized {
		return ErrNotRealized
	}
	if len(state) != len(b.state) {
		return fmt.Errorf("rigid: restoring %d coordinates into a %d-coordinate body", len(state), len(b.state))
	}
	copy(b.state, state)
	b.time = t
	b.phase = Advancing
	return nil
}

// dynamics adapts the body to the integrator. Slider state is [s, ds];
// free state is [dx, dy, theta, vx, vy, omega] relative to the
// reference center of mass.
type dynamics struct{ b *Body }

func (d dynamics) Dim() int { return len(d.b.state) }

func (d dynamics) Derive(x integrate.State, t float64) integrate.State {
	b := d.b
	switch b.spec.Mobility {
	case Slider:
		a := b.spec.Gravity.Add(b.force.Mul(1 / b.mass)).Dot(b.spec.Axis)
		return integrate.State{x[1], a}
	default:
		ax := b.spec.Gravity.X() + b.force.X()/b.mass
		ay := b.spec.Gravity.Y() + b.force.Y()/b.mass
		alpha := 0.0
		if b.inertia > 0 {
			alpha = b.torque / b.inertia
		}
		return integrate.State{x[3], x[4], x[5], ax, ay, alpha}
	}
}
