package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Op is a boolean operation combining a polygon into a shape.
type Op int

const (
	OpAdd Op = iota
	OpSubtract
)

// Region is one polygon with its boolean role. The closing edge from the
// last vertex back to the first is implied.
type Region struct {
	Op   Op
	Poly []mgl64.Vec2
}

// Shape is an ordered boolean combination of simple polygons. Operations are
// applied in insertion order: a point belongs to the shape if the last region
// covering it was added, not subtracted.
type Shape struct {
	regions []Region
}

func NewShape() *Shape { return &Shape{} }

// AddPolygon appends a polygon with the given operation.
func (s *Shape) AddPolygon(pts []mgl64.Vec2, op Op) *Shape {
	poly := make([]mgl64.Vec2, len(pts))
	copy(poly, pts)
	s.regions = append(s.regions, Region{Op: op, Poly: poly})
	return s
}

// AddRect appends an axis-aligned rectangle spanning (x0,y0)-(x1,y1).
func (s *Shape) AddRect(x0, y0, x1, y1 float64, op Op) *Shape {
	return s.AddPolygon([]mgl64.Vec2{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}}, op)
}

// Contains reports whether p lies inside the composite shape.
func (s *Shape) Contains(p mgl64.Vec2) bool {
	inside := false
	for _, r := range s.regions {
		if polygonContains(r.Poly, p) {
			inside = r.Op == OpAdd
		}
	}
	return inside
}

// Bounds returns the bounding box of all added regions.
func (s *Shape) Bounds() (min, max mgl64.Vec2) {
	min = mgl64.Vec2{math.Inf(1), math.Inf(1)}
	max = mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, r := range s.regions {
		if r.Op != OpAdd {
			continue
		}
		for _, v := range r.Poly {
			min = mgl64.Vec2{math.Min(min.X(), v.X()), math.Min(min.Y(), v.Y())}
			max = mgl64.Vec2{math.Max(max.X(), v.X()), math.Max(max.Y(), v.Y())}
		}
	}
	return min, max
}

// NearestSurfacePoint returns the closest point to p on any region edge.
func (s *Shape) NearestSurfacePoint(p mgl64.Vec2) mgl64.Vec2 {
	best := p
	bestDist := math.Inf(1)
	for _, r := range s.regions {
		n := len(r.Poly)
		for i := 0; i < n; i++ {
			q := nearestOnSegment(r.Poly[i], r.Poly[(i+1)%n], p)
			if d := q.Sub(p).Len(); d < bestDist {
				bestDist = d
				best = q
			}
		}
	}
	return best
}

// NormalAt returns the unit direction pointing out of the solid region at p,
// derived from the nearest boundary point. Inside the shape it points toward
// the surface; outside, away from it.
func (s *Shape) NormalAt(p mgl64.Vec2) mgl64.Vec2 {
	q := s.NearestSurfacePoint(p)
	d := q.Sub(p)
	if d.Len() < 1e-12 {
		return mgl64.Vec2{}
	}
	n := d.Normalize()
	if !s.Contains(p) {
		n = n.Mul(-1)
	}
	return n
}

func polygonContains(poly []mgl64.Vec2, p mgl64.Vec2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y() > p.Y()) != (pj.Y() > p.Y()) &&
			p.X() < (pj.X()-pi.X())*(p.Y()-pi.Y())/(pj.Y()-pi.Y())+pi.X() {
			inside = !inside
		}
	}
	return inside
}

func nearestOnSegment(a, b, p mgl64.Vec2) mgl64.Vec2 {
	ab := b.Sub(a)
	len2 := ab.Dot(ab)
	if len2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}
