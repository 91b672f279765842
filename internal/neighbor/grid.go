package neighbor

import "github.com/go-gl/mathgl/mgl64"

// Grid is a uniform cell list over particle positions with cell size equal
// to the kernel cutoff. It is rebuilt wholesale from scratch; cells are never
// incrementally patched.
type Grid struct {
	cutoff float64
	min    mgl64.Vec2
	nx, ny int
	cells  [][]int
}

func NewGrid(cutoff float64) *Grid {
	return &Grid{cutoff: cutoff}
}

// Rebuild reindexes all positions, discarding previous contents.
func (g *Grid) Rebuild(pos []mgl64.Vec2) {
	if len(pos) == 0 {
		g.nx, g.ny = 0, 0
		return
	}
	min, max := pos[0], pos[0]
	for _, p := range pos[1:] {
		if p.X() < min.X() {
			min[0] = p.X()
		}
		if p.Y() < min.Y() {
			min[1] = p.Y()
		}
		if p.X() > max.X() {
			max[0] = p.X()
		}
		if p.Y() > max.Y() {
			max[1] = p.Y()
		}
	}
	g.min = min
	g.nx = int((max.X()-min.X())/g.cutoff) + 1
	g.ny = int((max.Y()-min.Y())/g.cutoff) + 1

	need := g.nx * g.ny
	if cap(g.cells) < need {
		g.cells = make([][]int, need)
	}
	g.cells = g.cells[:need]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i, p := range pos {
		c := g.cellIndex(p)
		g.cells[c] = append(g.cells[c], i)
	}
}

// ForEach visits every indexed particle in the 3x3 cell block around p.
// Candidates beyond the cutoff are included; callers filter by distance.
func (g *Grid) ForEach(p mgl64.Vec2, fn func(j int)) {
	if g.nx == 0 {
		return
	}
	cx, cy := g.cellCoords(p)
	for y := cy - 1; y <= cy+1; y++ {
		if y < 0 || y >= g.ny {
			continue
		}
		for x := cx - 1; x <= cx+1; x++ {
			if x < 0 || x >= g.nx {
				continue
			}
			for _, j := range g.cells[y*g.nx+x] {
				fn(j)
			}
		}
	}
}

func (g *Grid) cellCoords(p mgl64.Vec2) (int, int) {
	cx := int((p.X() - g.min.X()) / g.cutoff)
	cy := int((p.Y() - g.min.Y()) / g.cutoff)
	if cx < 0 {
		cx = 0
	} else if cx >= g.nx {
		cx = g.nx - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.ny {
		cy = g.ny - 1
	}
	return cx, cy
}

func (g *Grid) cellIndex(p mgl64.Vec2) int {
	cx, cy := g.cellCoords(p)
	return cy*g.nx + cx
}
