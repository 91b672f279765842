package kernel

import "math"

// Wendland is the C2 Wendland smoothing kernel in two dimensions.
// The support radius is 2h; value and gradient vanish beyond it.
type Wendland struct {
	H      float64 // smoothing length
	Cutoff float64 // support radius, 2h
	alpha  float64
}

// NewWendland builds the kernel for a reference particle spacing dp,
// with the smoothing length at the usual 1.3*dp ratio.
func NewWendland(dp float64) Wendland {
	h := 1.3 * dp
	return Wendland{H: h, Cutoff: 2 * h, alpha: 7.0 / (4.0 * math.Pi * h * h)}
}

// W evaluates the kernel at distance r.
func (k Wendland) W(r float64) float64 {
	q := r / k.H
	if q >= 2 {
		return 0
	}
	t := 1 - 0.5*q
	t2 := t * t
	return k.alpha * t2 * t2 * (2*q + 1)
}

// W0 is the kernel value at zero distance.
func (k Wendland) W0() float64 { return k.alpha }

// GradW evaluates dW/dr at distance r. Non-positive everywhere.
func (k Wendland) GradW(r float64) float64 {
	q := r / k.H
	if q >= 2 {
		return 0
	}
	t := 1 - 0.5*q
	return -5 * q * k.alpha * t * t * t / k.H
}
