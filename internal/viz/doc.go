// Package viz provides terminal visualization for running simulations.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: preset picker that launches a live view
//   - [Model]: live view of a running engine with a metrics sidebar
//   - [Canvas]: braille pixel canvas the particle scatter renders on
//
// # Key Bindings
//
//	Space - Pause/Resume the run
//	R     - Rebuild and restart
//	T     - Cycle color themes
//	?     - Toggle help overlay
//	Esc   - Back to the preset menu
package viz
