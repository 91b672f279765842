package engine

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/erik-sundell/solidsph/internal/config"
	"github.com/erik-sundell/solidsph/internal/output"
	"github.com/erik-sundell/solidsph/internal/rigid"
)

func tinyEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(config.GetPreset("tiny"))
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	return e
}

// twoBlocks is a minimal scene of two free elastic blocks with the
// given left edge of the right block, for contact-property tests.
func twoBlocks(rightX0 float64) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Name = "blocks"
	cfg.Domain = config.DomainConfig{Width: 1, Height: 1}
	cfg.Resolution = 0.05
	cfg.BoundaryCells = 1
	cfg.EndTime = 0.005
	cfg.Output = config.OutputConfig{Dir: "runs", Interval: 0.005}
	mat := config.MaterialConfig{Model: "linear", Density: 1, Youngs: 5e4, Poisson: 0.45}
	cfg.Bodies = []config.BodyConfig{
		{
			Name: "left", Role: "volumetric", Dynamics: "elastic", Material: mat,
			Shape: []config.ShapeOpConfig{{Op: "add", Rect: []float64{0, 0, 0.3, 0.6}}},
		},
		{
			Name: "right", Role: "volumetric", Dynamics: "elastic", Material: mat,
			Shape: []config.ShapeOpConfig{{Op: "add", Rect: []float64{rightX0, 0, rightX0 + 0.22, 0.6}}},
		},
	}
	cfg.Contacts = []config.ContactConfig{
		{Owner: "left", Source: "right"},
		{Owner: "right", Source: "left"},
	}
	return cfg
}

func TestNewFromTinyPreset(t *testing.T) {
	e := tinyEngine(t)

	if e.Phase() != Initializing {
		t.Errorf("expected Initializing, got %v", e.Phase())
	}
	if n := e.Body("wall").N(); n != 276 {
		t.Errorf("expected 276 wall particles, got %d", n)
	}
	if n := e.Body("ball").N(); n != 20 {
		t.Errorf("expected 20 ball particles, got %d", n)
	}
	if len(e.Bridges()) != 1 {
		t.Fatalf("expected one bridge, got %d", len(e.Bridges()))
	}
	rb := e.Bridges()[0].Rigid()
	if rb.Phase() != rigid.TopologyRealized {
		t.Errorf("rigid body not realized")
	}
	if math.Abs(rb.Mass()-20*0.05*0.05) > 1e-12 {
		t.Errorf("expected ball mass 0.05, got %g", rb.Mass())
	}
	if e.Clock().End != 0.05 {
		t.Errorf("expected end time 0.05, got %g", e.Clock().End)
	}
}

func TestWarmupStepMovesNothing(t *testing.T) {
	e := tinyEngine(t)
	wall, ball := e.Body("wall"), e.Body("ball")

	if err := e.Step(); err != nil {
		t.Fatalf("warm-up step failed: %v", err)
	}

	ck := e.Clock()
	if ck.Step != 1 {
		t.Errorf("expected step 1, got %d", ck.Step)
	}
	if !(ck.Dt > 0) {
		t.Errorf("expected positive dt after warm-up, got %g", ck.Dt)
	}
	if ck.Time != ck.Dt {
		t.Errorf("clock should advance by the new dt: time %g, dt %g", ck.Time, ck.Dt)
	}

	for i := range wall.Pos {
		if wall.Pos[i] != wall.Pos0[i] {
			t.Fatalf("wall particle %d moved during warm-up", i)
		}
	}
	for i := range ball.Pos {
		if ball.Pos[i] != ball.Pos0[i] {
			t.Fatalf("ball particle %d moved during warm-up", i)
		}
	}

	// No contact and no body force yet, so the velocity bound decides.
	want := e.cfg.CFL * wall.Kern.H / wall.Mat.C0
	if math.Abs(ck.Dt-want) > 1e-15 {
		t.Errorf("expected acoustic dt %g, got %g", want, ck.Dt)
	}
}

func TestClockDoneOnReturnedCopy(t *testing.T) {
	e := tinyEngine(t)

	// Done must be callable on the copy Clock() hands out, not only
	// on the engine's own field.
	if e.Clock().Done() {
		t.Error("fresh engine reports a finished clock")
	}

	ck := Clock{Time: 0.04, End: 0.05}
	if ck.Done() {
		t.Errorf("time %g before end %g should not be done", ck.Time, ck.End)
	}
	ck.Advance(0.01)
	if !ck.Done() {
		t.Errorf("time %g at end %g should be done", ck.Time, ck.End)
	}
	if !(Clock{Time: 0.06, End: 0.05}).Done() {
		t.Error("time past end should be done")
	}
}

func TestBallSlidesTowardWall(t *testing.T) {
	e := tinyEngine(t)
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	x0 := e.Bridges()[0].Rigid().COM().X()
	for i := 0; i < 5; i++ {
		if err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	x1 := e.Bridges()[0].Rigid().COM().X()
	if !(x1 < x0) {
		t.Errorf("gravity along -x should pull the ball in: x0=%g x1=%g", x0, x1)
	}

	lin, ang := e.Bridges()[0].Rigid().Velocity()
	if !(lin.X() < 0) {
		t.Errorf("expected negative slider velocity, got %g", lin.X())
	}
	if ang != 0 {
		t.Errorf("slider must not rotate, got omega %g", ang)
	}
}

func TestNoContactLeavesEverythingUntouched(t *testing.T) {
	// Right block far beyond the kernel support of the left one.
	e, err := New(twoBlocks(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if e.Phase() != Completed {
		t.Errorf("expected Completed, got %v", e.Phase())
	}

	for _, b := range e.Bodies() {
		for i := 0; i < b.N(); i++ {
			if b.ContactDensity[i] != 0 {
				t.Fatalf("%s particle %d has contact density %g", b.Name, i, b.ContactDensity[i])
			}
			if b.ContactForce[i].X() != 0 || b.ContactForce[i].Y() != 0 {
				t.Fatalf("%s particle %d has contact force", b.Name, i)
			}
			if b.Pos[i] != b.Pos0[i] {
				t.Fatalf("%s particle %d drifted without any force", b.Name, i)
			}
			if b.Vel[i].X() != 0 || b.Vel[i].Y() != 0 {
				t.Fatalf("%s particle %d gained velocity", b.Name, i)
			}
		}
	}
}

func TestContactForcesPointApart(t *testing.T) {
	// Supports overlap across the gap between the blocks.
	e, err := New(twoBlocks(0.34))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}

	left, right := e.Body("left"), e.Body("right")
	comL, comR := left.CenterOfMass(), right.CenterOfMass()

	var fL, fR [2]float64
	for i := range left.ContactForce {
		fL[0] += left.ContactForce[i].X()
		fL[1] += left.ContactForce[i].Y()
	}
	for i := range right.ContactForce {
		fR[0] += right.ContactForce[i].X()
		fR[1] += right.ContactForce[i].Y()
	}
	if fL[0] == 0 && fL[1] == 0 {
		t.Fatal("expected nonzero contact force on the left block")
	}

	away := comL.Sub(comR)
	if fL[0]*away.X()+fL[1]*away.Y() <= 0 {
		t.Errorf("left resultant %v should point away from the right block", fL)
	}
	toward := comR.Sub(comL)
	if fR[0]*toward.X()+fR[1]*toward.Y() <= 0 {
		t.Errorf("right resultant %v should point away from the left block", fR)
	}
}

func TestAggregateMatchesDirectSum(t *testing.T) {
	e := tinyEngine(t)
	// Walk until contact force appears on the ball, then compare.
	for i := 0; i < 5000; i++ {
		if err := e.Step(); err != nil {
			t.Fatal(err)
		}
		br := e.Bridges()[0]
		var sum [2]float64
		for _, f := range br.Body().ContactForce {
			sum[0] += f.X()
			sum[1] += f.Y()
		}
		if got := br.LastForce(); got.X() != sum[0] || got.Y() != sum[1] {
			t.Fatalf("step %d: aggregate %v, direct sum %v", i, got, sum)
		}
		if sum[0] != 0 || sum[1] != 0 {
			return // contact reached and the equality held there too
		}
	}
	t.Fatal("ball never reached the wall")
}

func TestRigidRegionStaysRigid(t *testing.T) {
	e := tinyEngine(t)
	ball := e.Body("ball")
	ref := make([]float64, ball.N())
	for i := range ref {
		ref[i] = ball.Pos0[i].Sub(ball.Pos0[0]).Len()
	}
	for i := 0; i < 25; i++ {
		if err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	for i := range ref {
		d := ball.Pos[i].Sub(ball.Pos[0]).Len()
		if math.Abs(d-ref[i]) > 1e-12 {
			t.Errorf("particle %d: distance %g, reference %g", i, d, ref[i])
		}
	}
}

func TestDtNeverExceedsAcousticBound(t *testing.T) {
	e := tinyEngine(t)
	for i := 0; i < 50; i++ {
		if err := e.Step(); err != nil {
			t.Fatal(err)
		}
		if bound := acousticBound(e, "wall"); e.Clock().Dt > bound {
			t.Fatalf("step %d: dt %g exceeds acoustic bound %g", i, e.Clock().Dt, bound)
		}
	}
}

func TestSimulationErrorFormat(t *testing.T) {
	err := &SimulationError{Step: 42, Time: 0.5, Err: ErrUnstable}
	want := "step 42 (t=0.500000): engine: numerical instability"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, ErrUnstable) {
		t.Error("SimulationError should unwrap to its cause")
	}
}

func TestCheckpointRestore(t *testing.T) {
	a := tinyEngine(t)
	for i := 0; i < 10; i++ {
		if err := a.Step(); err != nil {
			t.Fatal(err)
		}
	}
	cp := a.Checkpoint()

	b := tinyEngine(t)
	if err := b.RestoreCheckpoint(cp, 3); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if b.Clock() != a.Clock() {
		t.Errorf("clocks differ: %+v vs %+v", b.Clock(), a.Clock())
	}
	wa, wb := a.Body("wall"), b.Body("wall")
	for i := 0; i < wa.N(); i++ {
		if wa.Pos[i] != wb.Pos[i] || wa.Vel[i] != wb.Vel[i] {
			t.Fatalf("wall particle %d not restored", i)
		}
	}
	ca := a.Bridges()[0].Rigid().COM()
	cb := b.Bridges()[0].Rigid().COM()
	if ca != cb {
		t.Errorf("rigid COM not restored: %v vs %v", ca, cb)
	}

	// The restored engine keeps stepping.
	if err := b.Step(); err != nil {
		t.Fatalf("step after restore failed: %v", err)
	}
}

func TestRestoreRejectsForeignCheckpoint(t *testing.T) {
	a := tinyEngine(t)
	cp := a.Checkpoint()
	delete(cp.Bodies, "wall")

	b := tinyEngine(t)
	if err := b.RestoreCheckpoint(cp, 0); err == nil {
		t.Error("expected error for checkpoint missing a body")
	}
}

func TestRunWritesRunArtifacts(t *testing.T) {
	cfg := *config.GetPreset("tiny")
	cfg.EndTime = 0.01
	cfg.Output.Interval = 0.005

	e, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	st := output.New(t.TempDir())
	if _, err := st.CreateRun(cfg.Name); err != nil {
		t.Fatal(err)
	}
	e.AttachStore(st)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if e.Phase() != Completed {
		t.Errorf("expected Completed, got %v", e.Phase())
	}

	for _, name := range []string{"wall_0000.csv", "ball_0000.csv", "wall_0001.csv", "rigid_ball.csv", "checkpoint_0000.json", "metadata.json"} {
		if _, err := os.Stat(filepath.Join(st.RunDir(), name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	meta, err := output.LoadMetadata(st.RunDir())
	if err != nil {
		t.Fatal(err)
	}
	if meta.Steps == 0 {
		t.Error("metadata should count sub-steps")
	}
	if meta.Particles["wall"] != 276 {
		t.Errorf("expected 276 wall particles in metadata, got %d", meta.Particles["wall"])
	}
	if meta.Snapshots < 3 {
		t.Errorf("expected at least 3 snapshots, got %d", meta.Snapshots)
	}

	samples, err := output.LoadRigid(st.RunDir(), "ball")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != meta.Snapshots {
		t.Errorf("expected %d trajectory rows, got %d", meta.Snapshots, len(samples))
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	e := tinyEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if e.Phase() == Completed {
		t.Error("cancelled run must not complete")
	}
}

func TestRelaxKeepsParticleCounts(t *testing.T) {
	bodies, err := Relax(config.GetPreset("tiny"), 4)
	if err != nil {
		t.Fatalf("relax failed: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if bodies[0].N() != 276 || bodies[1].N() != 20 {
		t.Errorf("relaxation must not change particle counts: %d, %d", bodies[0].N(), bodies[1].N())
	}
	for _, b := range bodies {
		if !b.Finite() {
			t.Errorf("body %s has non-finite positions after relaxation", b.Name)
		}
	}
}

// acousticBound recomputes the stability bound the way the engine does.
func acousticBound(e *Engine, name string) float64 {
	b := e.Body(name)
	bound := math.Inf(1)
	for i := 0; i < b.N(); i++ {
		acc := b.Acc[i].Len()
		vel := b.Vel[i].Len()
		byAcc := math.Sqrt(b.Kern.H / (acc + 1e-15))
		byVel := b.Kern.H / (b.Mat.C0 + vel)
		if byAcc < bound {
			bound = byAcc
		}
		if byVel < bound {
			bound = byVel
		}
	}
	return e.cfg.CFL * bound
}
