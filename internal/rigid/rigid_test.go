package rigid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func unitSquareCorners() ([]float64, []mgl64.Vec2) {
	masses := []float64{0.25, 0.25, 0.25, 0.25}
	positions := []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	return masses, positions
}

func TestPhaseTransitions(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Free})

	if b.Phase() != Uninitialized {
		t.Fatal("new body must be uninitialized")
	}
	if err := b.ApplyForce(mgl64.Vec2{1, 0}, 0); err != ErrNotRealized {
		t.Errorf("force before realize: expected ErrNotRealized, got %v", err)
	}
	if err := b.Advance(0.1); err != ErrNotRealized {
		t.Errorf("advance before realize: expected ErrNotRealized, got %v", err)
	}

	if err := b.RealizeTopology(); err != nil {
		t.Fatalf("realize failed: %v", err)
	}
	if b.Phase() != TopologyRealized {
		t.Fatal("realize must move the phase forward")
	}
	if err := b.RealizeTopology(); err != ErrRealized {
		t.Errorf("second realize: expected ErrRealized, got %v", err)
	}

	if err := b.Advance(0.1); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if b.Phase() != Advancing {
		t.Fatal("first advance must move the phase to advancing")
	}
}

func TestMassProperties(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Free})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}

	if math.Abs(b.Mass()-1.0) > 1e-15 {
		t.Errorf("mass: expected 1, got %g", b.Mass())
	}
	com := b.COM()
	if math.Abs(com.X()-0.5) > 1e-15 || math.Abs(com.Y()-0.5) > 1e-15 {
		t.Errorf("com: expected (0.5,0.5), got %v", com)
	}
	// each corner is sqrt(2)/2 from the center
	if math.Abs(b.Inertia()-0.5) > 1e-12 {
		t.Errorf("inertia: expected 0.5, got %g", b.Inertia())
	}
}

func TestSliderFall(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{
		Mobility: Slider,
		Axis:     mgl64.Vec2{1, 0},
		Gravity:  mgl64.Vec2{-150, 0},
		Accuracy: 1e-6,
	})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}

	dt := 0.1
	if err := b.Advance(dt); err != nil {
		t.Fatal(err)
	}

	wantS := 0.5 * -150 * dt * dt
	wantV := -150 * dt

	_, trans := b.Transform()
	if math.Abs(trans.X()-wantS) > 1e-9 || math.Abs(trans.Y()) > 1e-12 {
		t.Errorf("translation: expected (%g,0), got %v", wantS, trans)
	}
	lin, ang := b.Velocity()
	if math.Abs(lin.X()-wantV) > 1e-9 || ang != 0 {
		t.Errorf("velocity: expected (%g,0) with no spin, got %v, %g", wantV, lin, ang)
	}
	com := b.COM()
	if math.Abs(com.X()-(0.5+wantS)) > 1e-9 {
		t.Errorf("com x: expected %g, got %g", 0.5+wantS, com.X())
	}
}

func TestSliderIgnoresPerpendicularForce(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Slider, Axis: mgl64.Vec2{1, 0}, Accuracy: 1e-6})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyForce(mgl64.Vec2{0, 500}, 3); err != nil {
		t.Fatal(err)
	}
	if err := b.Advance(0.2); err != nil {
		t.Fatal(err)
	}

	_, trans := b.Transform()
	if trans.Len() != 0 {
		t.Errorf("perpendicular force moved the slider: %v", trans)
	}
}

func TestFreeSpin(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Free, Accuracy: 1e-9})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyForce(mgl64.Vec2{}, 2.0); err != nil {
		t.Fatal(err)
	}
	if err := b.Advance(0.5); err != nil {
		t.Fatal(err)
	}

	// inertia 0.5: alpha = 4, omega = 2, theta = 0.5
	_, ang := b.Velocity()
	if math.Abs(ang-2.0) > 1e-6 {
		t.Errorf("angular velocity: expected 2, got %g", ang)
	}
	r, _ := b.Transform()
	want := mgl64.Rotate2D(0.5)
	for i := 0; i < 4; i++ {
		if math.Abs(r[i]-want[i]) > 1e-6 {
			t.Fatalf("rotation matrix off: got %v, want %v", r, want)
		}
	}
}

func TestFreeFallWithForce(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Free, Gravity: mgl64.Vec2{0, -10}, Accuracy: 1e-9})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyForce(mgl64.Vec2{2, 0}, 0); err != nil {
		t.Fatal(err)
	}

	dt := 0.3
	if err := b.Advance(dt); err != nil {
		t.Fatal(err)
	}

	com := b.COM()
	wantX := 0.5 + 0.5*2*dt*dt // a = F/m = 2
	wantY := 0.5 + 0.5*-10*dt*dt
	if math.Abs(com.X()-wantX) > 1e-8 || math.Abs(com.Y()-wantY) > 1e-8 {
		t.Errorf("com: expected (%g,%g), got %v", wantX, wantY, com)
	}
}

func TestTransformMapsReferencePoints(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Free, Accuracy: 1e-9})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyForce(mgl64.Vec2{1, 1}, 1.5); err != nil {
		t.Fatal(err)
	}
	if err := b.Advance(0.4); err != nil {
		t.Fatal(err)
	}

	r, trans := b.Transform()
	com := b.COM()

	// the transform must keep every region point at its rigid offset
	for _, x0 := range p {
		x := r.Mul2x1(x0).Add(trans)
		refDist := x0.Sub(mgl64.Vec2{0.5, 0.5}).Len()
		if math.Abs(x.Sub(com).Len()-refDist) > 1e-9 {
			t.Errorf("point %v mapped to %v breaks rigidity: dist %g vs %g",
				x0, x, x.Sub(com).Len(), refDist)
		}
	}
}

func TestApplyForceReplaces(t *testing.T) {
	m, p := unitSquareCorners()
	b := New(m, p, Spec{Mobility: Slider, Axis: mgl64.Vec2{1, 0}, Accuracy: 1e-9})
	if err := b.RealizeTopology(); err != nil {
		t.Fatal(err)
	}

	// a large force replaced by zero must leave the body at rest
	if err := b.ApplyForce(mgl64.Vec2{1e6, 0}, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyForce(mgl64.Vec2{}, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.Advance(0.1); err != nil {
		t.Fatal(err)
	}
	if lin, _ := b.Velocity(); lin.Len() != 0 {
		t.Errorf("replaced force still acts: %v", lin)
	}
}
