package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/config"
	"github.com/erik-sundell/solidsph/internal/geom"
	"github.com/erik-sundell/solidsph/internal/material"
	"github.com/erik-sundell/solidsph/internal/output"
)

func buildShape(ops []config.ShapeOpConfig) *geom.Shape {
	s := geom.NewShape()
	for _, op := range ops {
		g := geom.OpAdd
		if op.Op == "subtract" {
			g = geom.OpSubtract
		}
		if len(op.Rect) == 4 {
			s.AddRect(op.Rect[0], op.Rect[1], op.Rect[2], op.Rect[3], g)
			continue
		}
		pts := make([]mgl64.Vec2, len(op.Polygon))
		for i, v := range op.Polygon {
			pts[i] = mgl64.Vec2{v[0], v[1]}
		}
		s.AddPolygon(pts, g)
	}
	return s
}

func rectShape(r []float64) *geom.Shape {
	return geom.NewShape().AddRect(r[0], r[1], r[2], r[3], geom.OpAdd)
}

func materialFor(mc config.MaterialConfig) *material.Elastic {
	model := material.Linear
	if mc.Model == "neo-hookean" {
		model = material.NeoHookean
	}
	return material.NewElastic(model, mc.Density, mc.Youngs, mc.Poisson)
}

func roleFor(role string) body.Role {
	if role == "shell" {
		return body.RoleShell
	}
	return body.RoleVolumetric
}

// buildBody generates or reloads the particle distribution of one
// configured body and derives its surface normals.
func buildBody(bc *config.BodyConfig, dp float64, reloadDir string) (*body.Body, error) {
	shape := buildShape(bc.Shape)

	var pos []mgl64.Vec2
	if reloadDir != "" {
		loaded, err := output.LoadRelaxed(reloadDir, bc.Name)
		if err != nil {
			return nil, fmt.Errorf("engine: reload of %q: %w", bc.Name, err)
		}
		pos = loaded
	} else {
		pos = geom.Lattice(shape, dp)
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("engine: body %q has no particles at resolution %g", bc.Name, dp)
	}

	b := body.New(bc.Name, roleFor(bc.Role), materialFor(bc.Material), dp, pos)
	b.InitNormals(shape)
	return b, nil
}

// Relax generates every configured body on its lattice and smooths the
// distribution with kernel-gradient sweeps. The result feeds the
// relaxed-particle files a reload run starts from.
func Relax(cfg *config.Config, iterations int) ([]*body.Body, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bodies := make([]*body.Body, 0, len(cfg.Bodies))
	for i := range cfg.Bodies {
		bc := &cfg.Bodies[i]
		shape := buildShape(bc.Shape)
		pos := geom.Lattice(shape, cfg.Resolution)
		if len(pos) == 0 {
			return nil, fmt.Errorf("engine: body %q has no particles at resolution %g", bc.Name, cfg.Resolution)
		}
		geom.RelaxLattice(shape, pos, cfg.Resolution, iterations)

		b := body.New(bc.Name, roleFor(bc.Role), materialFor(bc.Material), cfg.Resolution, pos)
		b.InitNormals(shape)
		bodies = append(bodies, b)
	}
	return bodies, nil
}
