package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultResolution = 0.025
	DefaultEndTime    = 10.0
	DefaultCFL        = 0.6
	DefaultInterval   = 0.1
	DefaultRatio      = 0.5
	DefaultViscosity  = 200.0
	DefaultAccuracy   = 1e-3
	DefaultSeed       = 42
)

type Config struct {
	Name          string          `yaml:"name" json:"name"`
	Domain        DomainConfig    `yaml:"domain" json:"domain"`
	Resolution    float64         `yaml:"resolution" json:"resolution"`
	BoundaryCells int             `yaml:"boundary_cells" json:"boundary_cells"`
	EndTime       float64         `yaml:"end_time" json:"end_time"`
	CFL           float64         `yaml:"cfl" json:"cfl"`
	Seed          int64           `yaml:"seed" json:"seed"`
	Workers       int             `yaml:"workers" json:"workers"`
	Gravity       [2]float64      `yaml:"gravity" json:"gravity"`
	Damping       DampingConfig   `yaml:"damping" json:"damping"`
	Bodies        []BodyConfig    `yaml:"bodies" json:"bodies"`
	Contacts      []ContactConfig `yaml:"contacts" json:"contacts"`
	Modes         ModesConfig     `yaml:"modes" json:"modes"`
	Output        OutputConfig    `yaml:"output" json:"output"`
}

type DomainConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

type DampingConfig struct {
	Ratio     float64 `yaml:"ratio" json:"ratio"`
	Viscosity float64 `yaml:"viscosity" json:"viscosity"`
}

type BodyConfig struct {
	Name        string          `yaml:"name" json:"name"`
	Role        string          `yaml:"role" json:"role"`         // volumetric or shell
	Dynamics    string          `yaml:"dynamics" json:"dynamics"` // elastic or rigid
	Material    MaterialConfig  `yaml:"material" json:"material"`
	Shape       []ShapeOpConfig `yaml:"shape" json:"shape"`
	Constraints []RegionConfig  `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Rigid       *RigidConfig    `yaml:"rigid,omitempty" json:"rigid,omitempty"`
}

type MaterialConfig struct {
	Model   string  `yaml:"model" json:"model"` // linear or neo-hookean
	Density float64 `yaml:"density" json:"density"`
	Youngs  float64 `yaml:"youngs" json:"youngs"`
	Poisson float64 `yaml:"poisson" json:"poisson"`
}

// Rect is x0 y0 x1 y1; Polygon is a vertex list with an implied closing
// edge. Exactly one of the two must be set per op.
type ShapeOpConfig struct {
	Op      string       `yaml:"op" json:"op"` // add or subtract
	Rect    []float64    `yaml:"rect,omitempty" json:"rect,omitempty"`
	Polygon [][2]float64 `yaml:"polygon,omitempty" json:"polygon,omitempty"`
}

type RegionConfig struct {
	Name string    `yaml:"name" json:"name"`
	Rect []float64 `yaml:"rect" json:"rect"`
}

type RigidConfig struct {
	Mobility string     `yaml:"mobility" json:"mobility"` // free or slider
	Axis     [2]float64 `yaml:"axis" json:"axis"`
	Gravity  [2]float64 `yaml:"gravity" json:"gravity"`
	Accuracy float64    `yaml:"accuracy" json:"accuracy"`
}

type ContactConfig struct {
	Owner  string `yaml:"owner" json:"owner"`
	Source string `yaml:"source" json:"source"`
}

type ModesConfig struct {
	Relax       bool `yaml:"relax" json:"relax"`
	Reload      bool `yaml:"reload" json:"reload"`
	RestartStep int  `yaml:"restart_step" json:"restart_step"`
}

type OutputConfig struct {
	Dir      string  `yaml:"dir" json:"dir"`
	Interval float64 `yaml:"interval" json:"interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "run",
		Domain:        DomainConfig{Width: 4.0, Height: 4.0},
		Resolution:    DefaultResolution,
		BoundaryCells: 4,
		EndTime:       DefaultEndTime,
		CFL:           DefaultCFL,
		Seed:          DefaultSeed,
		Damping:       DampingConfig{Ratio: DefaultRatio, Viscosity: DefaultViscosity},
		Output:        OutputConfig{Dir: "runs", Interval: DefaultInterval},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name is empty")
	}
	if c.Domain.Width <= 0 || c.Domain.Height <= 0 {
		return fmt.Errorf("config: domain must be positive, got %gx%g", c.Domain.Width, c.Domain.Height)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("config: resolution must be positive, got %g", c.Resolution)
	}
	if c.BoundaryCells < 1 {
		return fmt.Errorf("config: boundary_cells must be at least 1, got %d", c.BoundaryCells)
	}
	if c.EndTime <= 0 {
		return fmt.Errorf("config: end_time must be positive, got %g", c.EndTime)
	}
	if c.CFL <= 0 || c.CFL > 1 {
		return fmt.Errorf("config: cfl must be in (0,1], got %g", c.CFL)
	}
	if c.Damping.Ratio <= 0 || c.Damping.Ratio > 1 {
		return fmt.Errorf("config: damping ratio must be in (0,1], got %g", c.Damping.Ratio)
	}
	if c.Damping.Viscosity < 0 {
		return fmt.Errorf("config: damping viscosity must not be negative, got %g", c.Damping.Viscosity)
	}
	if c.Output.Interval <= 0 {
		return fmt.Errorf("config: output interval must be positive, got %g", c.Output.Interval)
	}
	if c.Modes.RestartStep < 0 {
		return fmt.Errorf("config: restart_step must not be negative, got %d", c.Modes.RestartStep)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("config: no bodies defined")
	}
	names := make(map[string]bool, len(c.Bodies))
	for i := range c.Bodies {
		if err := c.Bodies[i].validate(); err != nil {
			return err
		}
		if names[c.Bodies[i].Name] {
			return fmt.Errorf("config: duplicate body name %q", c.Bodies[i].Name)
		}
		names[c.Bodies[i].Name] = true
	}
	for _, p := range c.Contacts {
		if !names[p.Owner] {
			return fmt.Errorf("config: contact owner %q is not a body", p.Owner)
		}
		if !names[p.Source] {
			return fmt.Errorf("config: contact source %q is not a body", p.Source)
		}
		if p.Owner == p.Source {
			return fmt.Errorf("config: contact pair %q with itself", p.Owner)
		}
	}
	return nil
}

func (b *BodyConfig) validate() error {
	if b.Name == "" {
		return fmt.Errorf("config: body with empty name")
	}
	if b.Role != "volumetric" && b.Role != "shell" {
		return fmt.Errorf("config: body %q: role must be volumetric or shell, got %q", b.Name, b.Role)
	}
	if b.Dynamics != "elastic" && b.Dynamics != "rigid" {
		return fmt.Errorf("config: body %q: dynamics must be elastic or rigid, got %q", b.Name, b.Dynamics)
	}
	if b.Material.Model != "linear" && b.Material.Model != "neo-hookean" {
		return fmt.Errorf("config: body %q: material model must be linear or neo-hookean, got %q", b.Name, b.Material.Model)
	}
	if b.Material.Density <= 0 || b.Material.Youngs <= 0 {
		return fmt.Errorf("config: body %q: density and youngs must be positive", b.Name)
	}
	if b.Material.Poisson < 0 || b.Material.Poisson >= 0.5 {
		return fmt.Errorf("config: body %q: poisson must be in [0,0.5), got %g", b.Name, b.Material.Poisson)
	}
	if len(b.Shape) == 0 {
		return fmt.Errorf("config: body %q: shape is empty", b.Name)
	}
	for i, op := range b.Shape {
		if op.Op != "add" && op.Op != "subtract" {
			return fmt.Errorf("config: body %q: shape op %d must be add or subtract, got %q", b.Name, i, op.Op)
		}
		hasRect := len(op.Rect) > 0
		hasPoly := len(op.Polygon) > 0
		if hasRect == hasPoly {
			return fmt.Errorf("config: body %q: shape op %d needs exactly one of rect or polygon", b.Name, i)
		}
		if hasRect && len(op.Rect) != 4 {
			return fmt.Errorf("config: body %q: shape op %d: rect needs 4 values, got %d", b.Name, i, len(op.Rect))
		}
		if hasPoly && len(op.Polygon) < 3 {
			return fmt.Errorf("config: body %q: shape op %d: polygon needs at least 3 vertices", b.Name, i)
		}
	}
	for _, r := range b.Constraints {
		if r.Name == "" {
			return fmt.Errorf("config: body %q: constraint region with empty name", b.Name)
		}
		if len(r.Rect) != 4 {
			return fmt.Errorf("config: body %q: constraint region %q: rect needs 4 values", b.Name, r.Name)
		}
	}
	if b.Dynamics == "rigid" {
		if b.Rigid == nil {
			return fmt.Errorf("config: body %q: rigid dynamics needs a rigid block", b.Name)
		}
		if b.Rigid.Mobility != "free" && b.Rigid.Mobility != "slider" {
			return fmt.Errorf("config: body %q: rigid mobility must be free or slider, got %q", b.Name, b.Rigid.Mobility)
		}
		if b.Rigid.Mobility == "slider" && b.Rigid.Axis[0] == 0 && b.Rigid.Axis[1] == 0 {
			return fmt.Errorf("config: body %q: slider axis must not be zero", b.Name)
		}
		if b.Rigid.Accuracy < 0 {
			return fmt.Errorf("config: body %q: rigid accuracy must not be negative", b.Name)
		}
	} else if b.Rigid != nil {
		return fmt.Errorf("config: body %q: rigid block on a non-rigid body", b.Name)
	}
	return nil
}
