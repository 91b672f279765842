// Package analysis characterizes recorded simulation trajectories.
//
// The package works on sampled scalar signals:
//
//   - [Spectrum]: magnitude spectrum of a sampled signal
//   - [DominantFrequency]: strongest nonzero frequency of a trajectory
//   - [Episodes]: contiguous threshold excursions, such as contact impacts
//   - [Restitution]: speed ratio across each impact
//   - [PhaseToASCII]: text scatter of two signals against each other
//
// # Impact Detection
//
// A contact force trajectory splits into impacts by thresholding:
//
//	eps := analysis.Episodes(times, force, 0)
//	ratios := analysis.Restitution(times, velocity, eps)
package analysis
