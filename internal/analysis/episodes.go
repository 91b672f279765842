package analysis

// Episode is a contiguous stretch of samples above a threshold.
type Episode struct {
	Start    float64 // time of the first sample above
	End      float64 // time of the last sample above
	Peak     float64
	PeakTime float64
}

// Episodes splits a signal into its excursions above threshold. A
// contact force trajectory thresholded at zero yields one episode per
// impact.
func Episodes(times, values []float64, threshold float64) []Episode {
	if len(times) != len(values) {
		return nil
	}

	var eps []Episode
	open := false
	var cur Episode
	for i, v := range values {
		t := times[i]
		switch {
		case v > threshold && !open:
			open = true
			cur = Episode{Start: t, End: t, Peak: v, PeakTime: t}
		case v > threshold:
			cur.End = t
			if v > cur.Peak {
				cur.Peak = v
				cur.PeakTime = t
			}
		case open:
			eps = append(eps, cur)
			open = false
		}
	}
	if open {
		eps = append(eps, cur)
	}
	return eps
}

// Restitution reports -vOut/vIn for each episode, where vIn is the
// signed speed at the last sample before the episode and vOut the
// speed at the first sample after it. An episode with no sample on
// either side, or a zero approach speed, reports zero.
func Restitution(times, speed []float64, eps []Episode) []float64 {
	ratios := make([]float64, len(eps))
	if len(times) != len(speed) {
		return ratios
	}

	for n, ep := range eps {
		in, out := -1, -1
		for i, t := range times {
			if t < ep.Start {
				in = i
			}
			if t > ep.End {
				out = i
				break
			}
		}
		if in < 0 || out < 0 || speed[in] == 0 {
			continue
		}
		ratios[n] = -speed[out] / speed[in]
	}
	return ratios
}
