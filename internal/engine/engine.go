package engine

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/compute"
	"github.com/erik-sundell/solidsph/internal/config"
	"github.com/erik-sundell/solidsph/internal/contact"
	"github.com/erik-sundell/solidsph/internal/output"
	"github.com/erik-sundell/solidsph/internal/rigid"
	"github.com/erik-sundell/solidsph/internal/solid"
)

type Phase int

const (
	Initializing Phase = iota
	Running
	Completed
)

// Engine drives the coupled simulation: contact between the bodies,
// the rigid multibody advance, and stress relaxation of the elastic
// solids, in a fixed order per sub-step.
type Engine struct {
	cfg     *config.Config
	clock   Clock
	phase   Phase
	gravity mgl64.Vec2

	bodies  []*body.Body
	byName  map[string]*body.Body
	elastic []*body.Body

	pairs       []*contact.Pair
	relaxers    []*solid.Relaxation
	dampers     []*solid.Damping
	constraints []*solid.Constraint
	bridges     []*Bridge

	// Progress, when set, receives a line every 100 sub-steps.
	Progress io.Writer

	store     *output.Store
	snapshots int
	restored  bool
	ioSeconds float64
}

// New builds the whole scene from a validated configuration: particle
// lattices (or reloaded relaxed distributions), surface normals, the
// fixed inner relations with their kernel correction, contact pairs in
// configuration order, and the realized rigid bodies.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		compute.SetWorkers(cfg.Workers)
	}

	e := &Engine{
		cfg:     cfg,
		gravity: mgl64.Vec2{cfg.Gravity[0], cfg.Gravity[1]},
		byName:  make(map[string]*body.Body, len(cfg.Bodies)),
	}
	e.clock.End = cfg.EndTime

	reloadDir := ""
	if cfg.Modes.Reload {
		reloadDir = output.RelaxedDir(cfg.Output.Dir, cfg.Name)
	}

	for i := range cfg.Bodies {
		bc := &cfg.Bodies[i]
		b, err := buildBody(bc, cfg.Resolution, reloadDir)
		if err != nil {
			return nil, err
		}
		e.bodies = append(e.bodies, b)
		e.byName[b.Name] = b

		switch bc.Dynamics {
		case "elastic":
			b.Freeze()
			solid.CorrectConfiguration(b)
			e.elastic = append(e.elastic, b)
			e.relaxers = append(e.relaxers, solid.NewRelaxation(b))
			e.dampers = append(e.dampers, solid.NewDamping(b, cfg.Damping.Viscosity, cfg.Damping.Ratio, cfg.Seed))
			for _, rc := range bc.Constraints {
				idx := b.TagRegion(rc.Name, rectShape(rc.Rect))
				e.constraints = append(e.constraints, solid.NewConstraint(b, idx))
			}
		case "rigid":
			idx := make([]int, b.N())
			for j := range idx {
				idx[j] = j
			}
			spec := rigid.Spec{
				Axis:     mgl64.Vec2{bc.Rigid.Axis[0], bc.Rigid.Axis[1]},
				Gravity:  mgl64.Vec2{bc.Rigid.Gravity[0], bc.Rigid.Gravity[1]},
				Accuracy: bc.Rigid.Accuracy,
			}
			if bc.Rigid.Mobility == "slider" {
				spec.Mobility = rigid.Slider
			} else {
				spec.Mobility = rigid.Free
			}
			rb := rigid.New(b.Mass, b.Pos0, spec)
			if err := rb.RealizeTopology(); err != nil {
				return nil, err
			}
			e.bridges = append(e.bridges, NewBridge(b, rb, idx))
		}
	}

	if len(e.elastic) == 0 {
		return nil, fmt.Errorf("engine: no elastic body; the acoustic time step is undefined")
	}

	for _, pc := range cfg.Contacts {
		e.pairs = append(e.pairs, contact.NewPair(e.byName[pc.Owner], e.byName[pc.Source]))
	}
	return e, nil
}

func (e *Engine) Phase() Phase           { return e.phase }
func (e *Engine) Clock() Clock           { return e.clock }
func (e *Engine) Config() *config.Config { return e.cfg }
func (e *Engine) Bodies() []*body.Body   { return e.bodies }
func (e *Engine) Bridges() []*Bridge     { return e.bridges }

func (e *Engine) Body(name string) *body.Body { return e.byName[name] }

// AttachStore directs snapshots, trajectories, checkpoints and the
// final metadata into the given run directory.
func (e *Engine) AttachStore(st *output.Store) { e.store = st }

// Step executes one sub-step. The motion integrates over the dt
// computed at the end of the previous sub-step; the first call runs
// with dt zero, which only populates forces and the starting dt.
func (e *Engine) Step() error {
	if e.phase == Initializing {
		e.phase = Running
	}
	dt := e.clock.Dt

	if e.Progress != nil && e.clock.Step%100 == 0 {
		fmt.Fprintf(e.Progress, "step=%d  t=%.6f  dt=%.3e\n", e.clock.Step, e.clock.Time, dt)
	}

	e.resetPriors()

	for _, p := range e.pairs {
		p.UpdateDensity()
		p.ApplyForce()
	}

	for _, br := range e.bridges {
		if err := br.Step(dt); err != nil {
			return e.fatal(err)
		}
	}

	for _, r := range e.relaxers {
		r.FirstHalf(dt)
	}
	for _, c := range e.constraints {
		c.Apply()
	}
	for _, d := range e.dampers {
		d.Apply(dt)
	}
	for _, c := range e.constraints {
		c.Apply()
	}
	for _, r := range e.relaxers {
		r.SecondHalf(dt)
	}

	for _, p := range e.pairs {
		p.Rebuild()
	}

	next := math.Inf(1)
	for _, b := range e.elastic {
		if d := solid.AcousticDt(b, e.cfg.CFL); d < next {
			next = d
		}
	}
	if !(next > 0) || math.IsInf(next, 0) || math.IsNaN(next) {
		return e.fatal(fmt.Errorf("%w: acoustic dt %g", ErrUnstable, next))
	}
	for _, b := range e.bodies {
		if !b.Finite() {
			return e.fatal(fmt.Errorf("%w: non-finite state in body %q", ErrUnstable, b.Name))
		}
	}

	e.clock.Advance(next)
	return nil
}

func (e *Engine) fatal(err error) error {
	return &SimulationError{Step: e.clock.Step, Time: e.clock.Time, Err: err}
}

func (e *Engine) resetPriors() {
	for _, b := range e.bodies {
		bb := b
		compute.ParallelFor(bb.N(), minParallel, func(start, end int) {
			for i := start; i < end; i++ {
				bb.AccPrior[i] = e.gravity
			}
		})
	}
}

// Run advances the simulation to the configured end time, writing a
// snapshot at t=0 and after every output interval. Cancellation is
// honored between sub-steps and returns ctx.Err().
func (e *Engine) Run(ctx context.Context) error {
	start := time.Now()
	if e.phase == Initializing {
		e.phase = Running
		if !e.restored {
			if err := e.snapshot(); err != nil {
				return err
			}
		}
	}

	for !e.clock.Done() {
		interval := 0.0
		for interval < e.cfg.Output.Interval {
			if err := ctx.Err(); err != nil {
				_ = e.finalize(start)
				return err
			}
			if err := e.Step(); err != nil {
				_ = e.finalize(start)
				return err
			}
			interval += e.clock.Dt
		}
		if err := e.snapshot(); err != nil {
			return err
		}
	}

	e.phase = Completed
	return e.finalize(start)
}

// snapshot writes the per-body particle CSVs, appends the rigid
// trajectory rows and drops a restart checkpoint. I/O time is kept out
// of the solver wall-clock.
func (e *Engine) snapshot() error {
	if e.store == nil {
		e.snapshots++
		return nil
	}
	ioStart := time.Now()
	defer func() { e.ioSeconds += time.Since(ioStart).Seconds() }()

	index := e.snapshots
	if err := e.store.WriteSnapshot(index, e.bodies); err != nil {
		return err
	}
	for _, br := range e.bridges {
		com := br.rb.COM()
		lin, _ := br.rb.Velocity()
		sample := output.RigidSample{
			T:     e.clock.Time,
			Step:  e.clock.Step,
			COM:   [2]float64{com.X(), com.Y()},
			Vel:   [2]float64{lin.X(), lin.Y()},
			Force: [2]float64{br.force.X(), br.force.Y()},
		}
		if err := e.store.AppendRigid(br.sb.Name, sample); err != nil {
			return err
		}
	}
	if err := e.store.WriteCheckpoint(index, e.Checkpoint()); err != nil {
		return err
	}
	e.snapshots++
	return nil
}

// Checkpoint captures the full restartable state at the current clock.
func (e *Engine) Checkpoint() *output.Checkpoint {
	cp := &output.Checkpoint{
		Step:   e.clock.Step,
		Time:   e.clock.Time,
		Dt:     e.clock.Dt,
		Bodies: make(map[string]*output.BodyState, len(e.bodies)),
		Rigid:  make(map[string]*output.RigidState, len(e.bridges)),
	}
	for _, b := range e.bodies {
		cp.Bodies[b.Name] = output.CaptureBody(b)
	}
	for _, br := range e.bridges {
		cp.Rigid[br.sb.Name] = &output.RigidState{State: br.rb.State(), Time: e.clock.Time}
	}
	return cp
}

// RestoreCheckpoint resumes from a captured state. The engine must
// have been built from the same configuration; index is the output
// interval the checkpoint was written at, so numbering continues.
func (e *Engine) RestoreCheckpoint(cp *output.Checkpoint, index int) error {
	for _, b := range e.bodies {
		st, ok := cp.Bodies[b.Name]
		if !ok {
			return fmt.Errorf("engine: checkpoint has no state for body %q", b.Name)
		}
		if err := st.Apply(b); err != nil {
			return err
		}
	}
	for _, br := range e.bridges {
		st, ok := cp.Rigid[br.sb.Name]
		if !ok {
			return fmt.Errorf("engine: checkpoint has no rigid state for %q", br.sb.Name)
		}
		if err := br.rb.Restore(st.State, st.Time); err != nil {
			return err
		}
		br.Impose()
	}
	e.clock.Time = cp.Time
	e.clock.Step = cp.Step
	e.clock.Dt = cp.Dt
	for _, d := range e.dampers {
		d.Resync(cp.Step)
	}
	for _, p := range e.pairs {
		p.Rebuild()
	}
	e.snapshots = index + 1
	e.restored = true
	return nil
}

func (e *Engine) finalize(start time.Time) error {
	if e.store == nil {
		return nil
	}
	solver := time.Since(start).Seconds() - e.ioSeconds

	ioStart := time.Now()
	defer func() { e.ioSeconds += time.Since(ioStart).Seconds() }()

	particles := make(map[string]int, len(e.bodies))
	for _, b := range e.bodies {
		particles[b.Name] = b.N()
	}
	return e.store.WriteMetadata(&output.RunMetadata{
		Name:          e.cfg.Name,
		Timestamp:     time.Now(),
		Config:        e.cfg,
		Particles:     particles,
		Steps:         e.clock.Step,
		Snapshots:     e.snapshots,
		SolverSeconds: solver,
		IOSeconds:     e.ioSeconds,
	})
}
