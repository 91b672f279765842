package integrate

import (
	"math"
	"testing"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Dim() int { return 2 }

func (h *harmonicOscillator) Derive(x State, t float64) State {
	return State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

type freeFall struct{ g float64 }

func (f *freeFall) Dim() int { return 2 }

func (f *freeFall) Derive(x State, t float64) State {
	return State{x[1], f.g}
}

type blowUp struct{}

func (b *blowUp) Dim() int { return 1 }

func (b *blowUp) Derive(x State, t float64) State {
	return State{math.NaN()}
}

func TestStepAdaptiveAccepts(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := State{1.0, 0.0}

	x, newDt, ok := integrator.StepAdaptive(dyn, x0, 0, 0.01, 1e-8)
	if !ok {
		t.Error("small step on a smooth problem should be accepted")
	}
	if newDt <= 0 {
		t.Errorf("suggested dt must be positive, got %f", newDt)
	}
	if len(x) != 2 {
		t.Fatalf("state dimension changed: %d", len(x))
	}
}

func TestStepAdaptiveRejectsCoarseStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := State{1.0, 0.0}

	_, newDt, ok := integrator.StepAdaptive(dyn, x0, 0, 2.0, 1e-14)
	if ok {
		t.Error("a 2-radian step cannot meet 1e-14")
	}
	if newDt >= 2.0 {
		t.Errorf("rejection must shrink the step, got %f", newDt)
	}
}

func TestAdvanceByEnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := State{1.0, 0.0}

	initial := dyn.Energy(x)
	var err error
	for i := 0; i < 100; i++ {
		x, err = integrator.AdvanceBy(dyn, x, float64(i)*0.1, 0.1, 1e-10)
		if err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	drift := math.Abs(dyn.Energy(x)-initial) / initial
	if drift > 1e-7 {
		t.Errorf("energy drift too high: %e", drift)
	}
}

func TestAdvanceByExactQuadrature(t *testing.T) {
	integrator := NewRK45()
	dyn := &freeFall{g: -150}
	x := State{0, 0}

	dt := 0.25
	x, err := integrator.AdvanceBy(dyn, x, 0, dt, 1e-6)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	wantPos := 0.5 * -150 * dt * dt
	wantVel := -150 * dt
	if math.Abs(x[0]-wantPos) > 1e-9 {
		t.Errorf("position: expected %g, got %g", wantPos, x[0])
	}
	if math.Abs(x[1]-wantVel) > 1e-9 {
		t.Errorf("velocity: expected %g, got %g", wantVel, x[1])
	}
}

func TestAdvanceByZeroStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := State{1.0, 0.5}

	x, err := integrator.AdvanceBy(dyn, x0, 0, 0, 1e-6)
	if err != nil {
		t.Fatalf("zero step must succeed: %v", err)
	}
	if x[0] != x0[0] || x[1] != x0[1] {
		t.Errorf("zero step changed the state: %v", x)
	}
}

func TestAdvanceByAccuracyFailure(t *testing.T) {
	integrator := NewRK45()
	_, err := integrator.AdvanceBy(&blowUp{}, State{1}, 0, 0.1, 1e-6)
	if err == nil {
		t.Fatal("non-finite derivatives must fail")
	}
	if err != ErrAccuracy {
		t.Errorf("expected ErrAccuracy, got %v", err)
	}
}

func BenchmarkAdvanceBy(b *testing.B) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := State{1.0, 0.0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = integrator.AdvanceBy(dyn, x, 0, 0.1, 1e-8)
	}
}
