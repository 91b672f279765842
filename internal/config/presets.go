package config

import "sort"

var Presets = map[string]*Config{
	// The reference scenario: a rigid shell ring pulled by strong gravity
	// along a slider into the elastic frame around the domain.
	"square-impact": {
		Name:          "square-impact",
		Domain:        DomainConfig{Width: 4.0, Height: 4.0},
		Resolution:    0.025,
		BoundaryCells: 4,
		EndTime:       10.0,
		CFL:           0.6,
		Seed:          42,
		Damping:       DampingConfig{Ratio: 0.5, Viscosity: 200.0},
		Bodies: []BodyConfig{
			{
				Name:     "wall",
				Role:     "volumetric",
				Dynamics: "elastic",
				Material: MaterialConfig{Model: "linear", Density: 1.0, Youngs: 5e4, Poisson: 0.45},
				Shape: []ShapeOpConfig{
					{Op: "add", Rect: []float64{-0.1, -0.1, 4.1, 4.1}},
					{Op: "subtract", Rect: []float64{0.0, 0.0, 4.0, 4.0}},
				},
				Constraints: []RegionConfig{
					{Name: "holder", Rect: []float64{4.0, -0.1, 4.1, 4.1}},
				},
			},
			{
				Name:     "ball",
				Role:     "shell",
				Dynamics: "rigid",
				Material: MaterialConfig{Model: "neo-hookean", Density: 1.0, Youngs: 5e4, Poisson: 0.45},
				Shape: []ShapeOpConfig{
					{Op: "add", Rect: []float64{0.225, 1.975, 0.775, 2.525}},
					{Op: "subtract", Rect: []float64{0.25, 2.0, 0.75, 2.5}},
				},
				Rigid: &RigidConfig{
					Mobility: "slider",
					Axis:     [2]float64{1, 0},
					Gravity:  [2]float64{-150, 0},
					Accuracy: 1e-3,
				},
			},
		},
		Contacts: []ContactConfig{
			{Owner: "wall", Source: "ball"},
			{Owner: "ball", Source: "wall"},
		},
		Output: OutputConfig{Dir: "runs", Interval: 0.1},
	},

	// Same geometry with a weaker pull and heavier damping.
	"soft-impact": {
		Name:          "soft-impact",
		Domain:        DomainConfig{Width: 4.0, Height: 4.0},
		Resolution:    0.025,
		BoundaryCells: 4,
		EndTime:       6.0,
		CFL:           0.6,
		Seed:          42,
		Damping:       DampingConfig{Ratio: 0.5, Viscosity: 400.0},
		Bodies: []BodyConfig{
			{
				Name:     "wall",
				Role:     "volumetric",
				Dynamics: "elastic",
				Material: MaterialConfig{Model: "linear", Density: 1.0, Youngs: 5e4, Poisson: 0.45},
				Shape: []ShapeOpConfig{
					{Op: "add", Rect: []float64{-0.1, -0.1, 4.1, 4.1}},
					{Op: "subtract", Rect: []float64{0.0, 0.0, 4.0, 4.0}},
				},
				Constraints: []RegionConfig{
					{Name: "holder", Rect: []float64{4.0, -0.1, 4.1, 4.1}},
				},
			},
			{
				Name:     "ball",
				Role:     "shell",
				Dynamics: "rigid",
				Material: MaterialConfig{Model: "neo-hookean", Density: 1.0, Youngs: 5e4, Poisson: 0.45},
				Shape: []ShapeOpConfig{
					{Op: "add", Rect: []float64{0.225, 1.975, 0.775, 2.525}},
					{Op: "subtract", Rect: []float64{0.25, 2.0, 0.75, 2.5}},
				},
				Rigid: &RigidConfig{
					Mobility: "slider",
					Axis:     [2]float64{1, 0},
					Gravity:  [2]float64{-50, 0},
					Accuracy: 1e-3,
				},
			},
		},
		Contacts: []ContactConfig{
			{Owner: "wall", Source: "ball"},
			{Owner: "ball", Source: "wall"},
		},
		Output: OutputConfig{Dir: "runs", Interval: 0.1},
	},

	// Sub-second smoke case, a few hundred particles.
	"tiny": {
		Name:          "tiny",
		Domain:        DomainConfig{Width: 1.0, Height: 1.0},
		Resolution:    0.05,
		BoundaryCells: 3,
		EndTime:       0.05,
		CFL:           0.6,
		Seed:          7,
		Damping:       DampingConfig{Ratio: 0.5, Viscosity: 200.0},
		Bodies: []BodyConfig{
			{
				Name:     "wall",
				Role:     "volumetric",
				Dynamics: "elastic",
				Material: MaterialConfig{Model: "linear", Density: 1.0, Youngs: 5e4, Poisson: 0.45},
				Shape: []ShapeOpConfig{
					{Op: "add", Rect: []float64{-0.15, -0.15, 1.15, 1.15}},
					{Op: "subtract", Rect: []float64{0.0, 0.0, 1.0, 1.0}},
				},
				Constraints: []RegionConfig{
					{Name: "holder", Rect: []float64{1.0, -0.15, 1.15, 1.15}},
				},
			},
			{
				Name:     "ball",
				Role:     "shell",
				Dynamics: "rigid",
				Material: MaterialConfig{Model: "neo-hookean", Density: 1.0, Youngs: 5e4, Poisson: 0.45},
				Shape: []ShapeOpConfig{
					{Op: "add", Rect: []float64{0.10, 0.35, 0.40, 0.65}},
					{Op: "subtract", Rect: []float64{0.15, 0.40, 0.35, 0.60}},
				},
				Rigid: &RigidConfig{
					Mobility: "slider",
					Axis:     [2]float64{1, 0},
					Gravity:  [2]float64{-150, 0},
					Accuracy: 1e-3,
				},
			},
		},
		Contacts: []ContactConfig{
			{Owner: "wall", Source: "ball"},
			{Owner: "ball", Source: "wall"},
		},
		Output: OutputConfig{Dir: "runs", Interval: 0.01},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
