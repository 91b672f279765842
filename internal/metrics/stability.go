package metrics

import "math"

// Stability reports the fraction of samples whose magnitude stayed at
// or under a threshold. 1.0 means the signal never left the band.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(name string, threshold float64) *Stability {
	return &Stability{name: name, threshold: threshold}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(v, t float64) {
	s.samples++
	if math.Abs(v) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
