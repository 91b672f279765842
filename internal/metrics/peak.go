package metrics

import "math"

// Peak tracks the largest magnitude seen and the time it occurred.
type Peak struct {
	name    string
	value   float64
	at      float64
	samples int
}

func NewPeak(name string) *Peak {
	return &Peak{name: name}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(v, t float64) {
	if m := math.Abs(v); m > p.value {
		p.value = m
		p.at = t
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.value }

// Time reports when the peak was observed, zero before any sample.
func (p *Peak) Time() float64 { return p.at }

func (p *Peak) Reset() {
	p.value = 0
	p.at = 0
	p.samples = 0
}

// MeanAbs is the average magnitude across all samples.
type MeanAbs struct {
	name    string
	sum     float64
	samples int
}

func NewMeanAbs(name string) *MeanAbs {
	return &MeanAbs{name: name}
}

func (c *MeanAbs) Name() string { return c.name }

func (c *MeanAbs) Observe(v, t float64) {
	c.sum += math.Abs(v)
	c.samples++
}

func (c *MeanAbs) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *MeanAbs) Reset() {
	c.sum = 0
	c.samples = 0
}
