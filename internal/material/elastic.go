package material

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Model selects the constitutive law of an elastic solid.
type Model int

const (
	Linear     Model = iota // St. Venant-Kirchhoff
	NeoHookean              // compressible neo-Hookean
)

// Elastic holds the parameters of an isotropic elastic solid together with
// the derived stiffness and wave-speed constants the solvers need.
type Elastic struct {
	Model   Model
	Rho0    float64 // reference density
	Youngs  float64
	Poisson float64

	Lambda float64 // first Lame parameter
	Mu     float64 // shear modulus
	Bulk   float64
	C0     float64 // acoustic sound speed
}

// NewElastic derives the Lame parameters, bulk modulus and sound speed from
// the engineering constants.
func NewElastic(model Model, rho0, youngs, poisson float64) *Elastic {
	lambda := youngs * poisson / ((1 + poisson) * (1 - 2*poisson))
	mu := youngs / (2 * (1 + poisson))
	bulk := youngs / (3 * (1 - 2*poisson))
	return &Elastic{
		Model: model, Rho0: rho0, Youngs: youngs, Poisson: poisson,
		Lambda: lambda, Mu: mu, Bulk: bulk, C0: math.Sqrt(bulk / rho0),
	}
}

// ContactStiffness converts contact density into contact pressure.
func (m *Elastic) ContactStiffness() float64 { return m.C0 * m.C0 }

// SecondPK evaluates the second Piola-Kirchhoff stress for a deformation
// gradient F.
func (m *Elastic) SecondPK(F mgl64.Mat2) mgl64.Mat2 {
	switch m.Model {
	case NeoHookean:
		C := F.Transpose().Mul2(F)
		return mgl64.Ident2().Mul(m.Mu).Add(C.Inv().Mul(m.Lambda*math.Log(F.Det()) - m.Mu))
	default:
		E := F.Transpose().Mul2(F).Sub(mgl64.Ident2()).Mul(0.5)
		return mgl64.Ident2().Mul(m.Lambda * E.Trace()).Add(E.Mul(2 * m.Mu))
	}
}

// DampingStress is the artificial viscous stress added during stress
// relaxation, proportional to the Green-Lagrange strain rate.
func (m *Elastic) DampingStress(F, Fdot mgl64.Mat2, h float64) mgl64.Mat2 {
	rate := Fdot.Transpose().Mul2(F).Add(F.Transpose().Mul2(Fdot)).Mul(0.5)
	return rate.Mul(0.5 * m.Rho0 * m.C0 * h)
}
