// Package engine runs the coupled time stepper. Each sub-step, in
// fixed order: prior accelerations reset to the body force, contact
// density and force per pair in configuration order, the rigid advance
// by the previous sub-step's dt with kinematic imposition after it,
// the two stress-relaxation halves around constraint and damping
// passes, a wholesale rebuild of all contact relations, and finally
// the acoustic time-step bound that moves the clock.
//
// The first sub-step runs with dt zero. It populates contact forces
// and the starting dt without moving anything, so the rigid advance by
// the previous dt and the clock quirk of advancing by the newly
// computed dt stay consistent from step one.
package engine
