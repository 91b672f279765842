package metrics

import (
	"math"
	"testing"
)

func TestSeriesStatistics(t *testing.T) {
	s := NewSeries("vx")

	for i, v := range []float64{2.0, -3.0, 1.0, 4.0} {
		s.Observe(v, float64(i))
	}

	if s.Len() != 4 {
		t.Errorf("expected 4 samples, got %d", s.Len())
	}
	if s.Value() != 4.0 {
		t.Errorf("expected last value 4, got %f", s.Value())
	}
	if s.Min() != -3.0 {
		t.Errorf("expected min -3, got %f", s.Min())
	}
	if s.Max() != 4.0 {
		t.Errorf("expected max 4, got %f", s.Max())
	}
	if math.Abs(s.Mean()-1.0) > 1e-12 {
		t.Errorf("expected mean 1, got %f", s.Mean())
	}

	tail := s.Tail(2)
	if len(tail) != 2 || tail[0] != 1.0 || tail[1] != 4.0 {
		t.Errorf("unexpected tail %v", tail)
	}
	if got := s.Tail(10); len(got) != 4 {
		t.Errorf("oversized tail should return everything, got %d", len(got))
	}
}

func TestSeriesEmpty(t *testing.T) {
	s := NewSeries("empty")

	if s.Value() != 0 || s.Min() != 0 || s.Max() != 0 || s.Mean() != 0 {
		t.Error("empty series should report zeros")
	}
}

func TestSeriesReset(t *testing.T) {
	s := NewSeries("vx")
	s.Observe(1.0, 0)

	s.Reset()
	if s.Len() != 0 {
		t.Error("expected empty series after reset")
	}
}

func TestPeakTracksTime(t *testing.T) {
	p := NewPeak("contact_force")

	p.Observe(1.0, 0.1)
	p.Observe(-5.0, 0.2)
	p.Observe(3.0, 0.3)

	if p.Value() != 5.0 {
		t.Errorf("expected peak magnitude 5, got %f", p.Value())
	}
	if p.Time() != 0.2 {
		t.Errorf("expected peak at t=0.2, got %f", p.Time())
	}

	p.Reset()
	if p.Value() != 0 {
		t.Error("expected zero peak after reset")
	}
}

func TestDriftFromFirstSample(t *testing.T) {
	d := NewDrift("energy")

	d.Observe(10.0, 0)
	d.Observe(10.5, 1)
	d.Observe(9.0, 2)
	d.Observe(10.2, 3)

	if math.Abs(d.Value()-0.1) > 1e-12 {
		t.Errorf("expected max drift 0.1, got %f", d.Value())
	}
}

func TestDriftZeroReference(t *testing.T) {
	d := NewDrift("energy")

	d.Observe(0.0, 0)
	d.Observe(100.0, 1)

	if d.Value() != 0 {
		t.Errorf("zero reference cannot define relative drift, got %f", d.Value())
	}
}

func TestStabilityFraction(t *testing.T) {
	s := NewStability("dt", 1.0)

	for _, v := range []float64{0.5, -0.5, 2.0, 0.1} {
		s.Observe(v, 0)
	}

	if math.Abs(s.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", s.Value())
	}
}

func TestStabilityNoSamples(t *testing.T) {
	s := NewStability("dt", 1.0)
	if s.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", s.Value())
	}
}

func TestMeanAbs(t *testing.T) {
	m := NewMeanAbs("force")

	m.Observe(3.0, 0)
	m.Observe(-1.0, 1)

	if math.Abs(m.Value()-2.0) > 1e-12 {
		t.Errorf("expected 2, got %f", m.Value())
	}
}
