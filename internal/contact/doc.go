// Package contact implements penalty-style contact between
// SPH-discretized solids.
//
// A [Pair] is directional: it owns the neighborhoods of one body's
// particles inside another body's support. Both directions of a
// colliding couple are separate pairs sharing no state, so the engine
// drives wall-from-ball and ball-from-wall independently.
//
// Per step a pair runs three passes:
//
//	pair.UpdateDensity() // kernel-weighted overlap measure
//	pair.ApplyForce()    // repulsive pressure from both densities
//	pair.Rebuild()       // refresh neighborhoods after motion
//
// Volumetric sources use the plain summation over neighbor masses. A
// single-layer shell source would be underweighted that way, so shell
// sources instead use the distance to the shell surface along the owner
// normal, with a calibration factor that restores the density a fully
// resolved volumetric body would produce.
package contact
