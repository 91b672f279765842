package integrate

import "errors"

// ErrAccuracy reports that the adaptive controller shrank its internal
// step below the useful floor without meeting the error tolerance.
var ErrAccuracy = errors.New("integrate: step underflow before reaching tolerance")

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// System is an autonomous-in-structure ODE: the derivative may read the
// time but the dimension is fixed.
type System interface {
	Dim() int
	Derive(x State, t float64) State
}
