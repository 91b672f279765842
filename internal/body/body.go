package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/compute"
	"github.com/erik-sundell/solidsph/internal/geom"
	"github.com/erik-sundell/solidsph/internal/kernel"
	"github.com/erik-sundell/solidsph/internal/material"
	"github.com/erik-sundell/solidsph/internal/neighbor"
)

const minParallel = 64

// Role tells contact interactions how to read this body when it acts
// as the source side of a pair. Volumetric bodies are several layers
// thick and use the plain kernel summation; shell bodies are a single
// particle layer and need the calibrated surface formulation.
type Role int

const (
	RoleVolumetric Role = iota
	RoleShell
)

// Body holds one SPH-discretized solid in structure-of-arrays form.
// Reference-configuration arrays (Pos0, Normal0, Vol) are frozen after
// Freeze; the rest evolves during time stepping.
type Body struct {
	Name string
	Role Role
	Mat  *material.Elastic
	Dp   float64
	Kern kernel.Wendland

	Pos0     []mgl64.Vec2
	Pos      []mgl64.Vec2
	Vel      []mgl64.Vec2
	Acc      []mgl64.Vec2
	AccPrior []mgl64.Vec2

	Normal0 []mgl64.Vec2
	Normal  []mgl64.Vec2

	Mass []float64
	Vol  []float64
	Rho  []float64

	F    []mgl64.Mat2
	FDot []mgl64.Mat2
	B    []mgl64.Mat2
	PK1B []mgl64.Mat2

	ContactDensity []float64
	ContactForce   []mgl64.Vec2

	Regions map[string][]int

	Inner *neighbor.Relation
}

// New builds a body from generated particle positions. Particle volume
// is the lattice cell dp^2 and stays at its reference value; density
// follows the deformation gradient instead.
func New(name string, role Role, mat *material.Elastic, dp float64, pos []mgl64.Vec2) *Body {
	n := len(pos)
	b := &Body{
		Name: name,
		Role: role,
		Mat:  mat,
		Dp:   dp,
		Kern: kernel.NewWendland(dp),

		Pos0:     make([]mgl64.Vec2, n),
		Pos:      make([]mgl64.Vec2, n),
		Vel:      make([]mgl64.Vec2, n),
		Acc:      make([]mgl64.Vec2, n),
		AccPrior: make([]mgl64.Vec2, n),

		Normal0: make([]mgl64.Vec2, n),
		Normal:  make([]mgl64.Vec2, n),

		Mass: make([]float64, n),
		Vol:  make([]float64, n),
		Rho:  make([]float64, n),

		F:    make([]mgl64.Mat2, n),
		FDot: make([]mgl64.Mat2, n),
		B:    make([]mgl64.Mat2, n),
		PK1B: make([]mgl64.Mat2, n),

		ContactDensity: make([]float64, n),
		ContactForce:   make([]mgl64.Vec2, n),

		Regions: make(map[string][]int),
	}
	copy(b.Pos0, pos)
	copy(b.Pos, pos)

	vol := dp * dp
	for i := 0; i < n; i++ {
		b.Vol[i] = vol
		b.Mass[i] = mat.Rho0 * vol
		b.Rho[i] = mat.Rho0
		b.F[i] = mgl64.Ident2()
		b.B[i] = mgl64.Ident2()
	}
	return b
}

func (b *Body) N() int { return len(b.Pos) }

// Freeze builds the inner relation over the reference configuration.
// Inner neighborhoods never change afterwards; only contact
// neighborhoods are rebuilt during stepping.
func (b *Body) Freeze() {
	b.Inner = neighbor.NewInner(b.Pos0, b.Kern)
}

// InitNormals assigns each particle the outward surface normal of the
// generating shape at its reference position.
func (b *Body) InitNormals(s *geom.Shape) {
	for i := range b.Pos0 {
		n := s.NormalAt(b.Pos0[i])
		b.Normal0[i] = n
		b.Normal[i] = n
	}
}

// TagRegion records the particles whose reference positions fall
// inside the shape. Regions select constrained particles and rigid
// subsets, so membership is fixed at initialization.
func (b *Body) TagRegion(name string, s *geom.Shape) []int {
	var idx []int
	for i := range b.Pos0 {
		if s.Contains(b.Pos0[i]) {
			idx = append(idx, i)
		}
	}
	b.Regions[name] = idx
	return idx
}

// TotalMass sums particle masses.
func (b *Body) TotalMass() float64 {
	m := 0.0
	for i := range b.Mass {
		m += b.Mass[i]
	}
	return m
}

// CenterOfMass is the mass-weighted mean of current positions.
func (b *Body) CenterOfMass() mgl64.Vec2 {
	var c mgl64.Vec2
	m := 0.0
	for i := range b.Pos {
		c = c.Add(b.Pos[i].Mul(b.Mass[i]))
		m += b.Mass[i]
	}
	if m == 0 {
		return mgl64.Vec2{}
	}
	return c.Mul(1 / m)
}

// KineticEnergy sums 1/2 m v^2 over the particles. The parallel sum is
// for display readers; its rounding shifts with the worker count.
func (b *Body) KineticEnergy() float64 {
	return compute.SumFloat64(b.N(), minParallel, func(i int) float64 {
		return 0.5 * b.Mass[i] * b.Vel[i].Dot(b.Vel[i])
	})
}

// MaxVelocity returns the largest particle speed.
func (b *Body) MaxVelocity() float64 {
	v := 0.0
	for i := range b.Vel {
		if s := b.Vel[i].Len(); s > v {
			v = s
		}
	}
	return v
}

// Finite reports whether every position and velocity component is a
// finite number. A blown-up explicit step shows here first.
func (b *Body) Finite() bool {
	for i := range b.Pos {
		for k := 0; k < 2; k++ {
			if math.IsNaN(b.Pos[i][k]) || math.IsInf(b.Pos[i][k], 0) {
				return false
			}
			if math.IsNaN(b.Vel[i][k]) || math.IsInf(b.Vel[i][k], 0) {
				return false
			}
		}
	}
	return true
}
