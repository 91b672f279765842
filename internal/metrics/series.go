package metrics

// Series is an append-only record of one scalar over time. It keeps
// every sample, so it serves both as a Metric and as plot input.
type Series struct {
	name   string
	times  []float64
	values []float64
}

func NewSeries(name string) *Series {
	return &Series{name: name}
}

func (s *Series) Name() string { return s.name }

func (s *Series) Observe(v, t float64) {
	s.values = append(s.values, v)
	s.times = append(s.times, t)
}

func (s *Series) Len() int { return len(s.values) }

// Value returns the most recent sample, zero before any Observe.
func (s *Series) Value() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

func (s *Series) Min() float64 {
	if len(s.values) == 0 {
		return 0
	}
	min := s.values[0]
	for _, v := range s.values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func (s *Series) Max() float64 {
	if len(s.values) == 0 {
		return 0
	}
	max := s.values[0]
	for _, v := range s.values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func (s *Series) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}

// Values exposes the backing slice for plotting. Callers must not
// modify it.
func (s *Series) Values() []float64 { return s.values }

func (s *Series) Times() []float64 { return s.times }

// Tail returns up to n of the most recent samples.
func (s *Series) Tail(n int) []float64 {
	if n >= len(s.values) {
		return s.values
	}
	return s.values[len(s.values)-n:]
}

func (s *Series) Reset() {
	s.values = s.values[:0]
	s.times = s.times[:0]
}
