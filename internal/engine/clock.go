package engine

// Clock tracks simulated time. Dt is the size of the next sub-step,
// recomputed from the acoustic bound at the end of the previous one;
// the first sub-step runs with Dt zero as a warm-up.
type Clock struct {
	Time float64
	Step int
	Dt   float64
	End  float64
}

// Advance records a completed sub-step and installs the freshly
// computed dt for the next one. The clock moves by the new dt.
func (c *Clock) Advance(dt float64) {
	c.Dt = dt
	c.Time += dt
	c.Step++
}

func (c Clock) Done() bool { return c.Time >= c.End }
