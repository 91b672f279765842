package engine

import (
	"errors"
	"fmt"
)

// ErrUnstable marks a blown-up explicit integration: a non-finite
// acoustic dt or non-finite particle state. There is no recovery.
var ErrUnstable = errors.New("engine: numerical instability")

// SimulationError wraps a fatal solver error with the sub-step and
// simulated time at which it surfaced.
type SimulationError struct {
	Step int
	Time float64
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }
