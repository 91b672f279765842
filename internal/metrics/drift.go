package metrics

import "math"

// Drift tracks the largest relative departure from the first sample.
// Feed it a signal that ought to be conserved and it reports the
// worst-case violation.
type Drift struct {
	name    string
	initial float64
	max     float64
	samples int
}

func NewDrift(name string) *Drift {
	return &Drift{name: name}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(v, t float64) {
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++

	if d.initial != 0 {
		if r := math.Abs(v-d.initial) / math.Abs(d.initial); r > d.max {
			d.max = r
		}
	}
}

func (d *Drift) Value() float64 { return d.max }

func (d *Drift) Reset() {
	d.initial = 0
	d.max = 0
	d.samples = 0
}
