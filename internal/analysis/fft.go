package analysis

import (
	"math"
	"math/cmplx"
)

// Spectrum returns the magnitudes of the lower half of the discrete
// Fourier transform. Input shorter than a power of two is zero-padded
// up to one.
func Spectrum(values []float64) []float64 {
	n := nextPow2(len(values))
	buf := make([]complex128, n)
	for i, v := range values {
		buf[i] = complex(v, 0)
	}
	fft(buf)

	half := make([]float64, n/2)
	for i := range half {
		half[i] = cmplx.Abs(buf[i])
	}
	return half
}

// DominantFrequency estimates the strongest nonzero frequency of a
// possibly unevenly sampled signal, in cycles per time unit. It returns
// zero when the signal is too short or carries no oscillation.
func DominantFrequency(times, values []float64) float64 {
	if len(values) < 4 || len(times) != len(values) {
		return 0
	}
	n := nextPow2(len(values))
	dt, samples := Resample(times, values, n)
	if dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	for i := range samples {
		samples[i] -= mean
	}

	spec := Spectrum(samples)
	bestK, best := 0, 0.0
	for k := 1; k < len(spec); k++ {
		if spec[k] > best {
			best, bestK = spec[k], k
		}
	}
	if bestK == 0 || best == 0 {
		return 0
	}
	return float64(bestK) / (float64(n) * dt)
}

// Resample interpolates a series onto n uniform samples spanning the
// same interval and returns the uniform spacing. Times must not
// decrease.
func Resample(times, values []float64, n int) (float64, []float64) {
	if n < 2 || len(times) != len(values) || len(times) < 2 {
		return 0, nil
	}
	t0, t1 := times[0], times[len(times)-1]
	if t1 <= t0 {
		return 0, nil
	}

	dt := (t1 - t0) / float64(n-1)
	out := make([]float64, n)
	j := 0
	for i := range out {
		t := t0 + float64(i)*dt
		for j < len(times)-2 && times[j+1] <= t {
			j++
		}
		frac := 0.5
		if span := times[j+1] - times[j]; span > 0 {
			frac = (t - times[j]) / span
		}
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out[i] = values[j] + frac*(values[j+1]-values[j])
	}
	return dt, out
}

// fft runs an in-place radix-2 transform; len(buf) must be a power of
// two.
func fft(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+size/2; k++ {
				u, v := buf[k], buf[k+size/2]*w
				buf[k] = u + v
				buf[k+size/2] = u - v
				w *= step
			}
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
