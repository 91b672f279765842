package metrics

// Metric is a streaming reduction over one scalar signal sampled in
// time. Implementations keep whatever running state they need and are
// reusable after Reset.
type Metric interface {
	Name() string
	Observe(v, t float64)
	Value() float64
	Reset()
}
