package geom

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/kernel"
	"github.com/erik-sundell/solidsph/internal/neighbor"
)

// Lattice fills the shape with particles on a regular grid of spacing dp,
// one candidate per cell center.
func Lattice(s *Shape, dp float64) []mgl64.Vec2 {
	min, max := s.Bounds()
	var pts []mgl64.Vec2
	for y := min.Y() + 0.5*dp; y < max.Y(); y += dp {
		for x := min.X() + 0.5*dp; x < max.X(); x += dp {
			p := mgl64.Vec2{x, y}
			if s.Contains(p) {
				pts = append(pts, p)
			}
		}
	}
	return pts
}

// RelaxLattice nudges lattice particles toward a body-fitted distribution by
// kernel-gradient repulsion between neighbors. Sweeps that would push a
// particle out of the shape are rejected, and per-sweep displacement is
// capped to keep the iteration stable.
func RelaxLattice(s *Shape, pts []mgl64.Vec2, dp float64, iterations int) {
	k := kernel.NewWendland(dp)
	grid := neighbor.NewGrid(k.Cutoff)
	disp := make([]mgl64.Vec2, len(pts))
	maxStep := 0.2 * dp

	for it := 0; it < iterations; it++ {
		grid.Rebuild(pts)
		for i := range pts {
			d := mgl64.Vec2{}
			grid.ForEach(pts[i], func(j int) {
				if j == i {
					return
				}
				r := pts[i].Sub(pts[j])
				dist := r.Len()
				if dist < 1e-12 || dist >= k.Cutoff {
					return
				}
				d = d.Add(r.Mul(-k.GradW(dist) * dp * dp / dist))
			})
			disp[i] = d.Mul(2 * dp * dp)
		}
		for i := range pts {
			d := disp[i]
			if l := d.Len(); l > maxStep {
				d = d.Mul(maxStep / l)
			}
			if p := pts[i].Add(d); s.Contains(p) {
				pts[i] = p
			}
		}
	}
}
