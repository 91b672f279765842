package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
)

// Checkpoint is the full restartable state at one output interval:
// the clock, every body's evolving particle arrays and the rigid
// integrator states. Everything else is rebuilt or recomputed.
type Checkpoint struct {
	Step   int                    `json:"step"`
	Time   float64                `json:"time"`
	Dt     float64                `json:"dt"`
	Bodies map[string]*BodyState  `json:"bodies"`
	Rigid  map[string]*RigidState `json:"rigid"`
}

type BodyState struct {
	Pos  []mgl64.Vec2 `json:"pos"`
	Vel  []mgl64.Vec2 `json:"vel"`
	F    []mgl64.Mat2 `json:"f"`
	FDot []mgl64.Mat2 `json:"fdot"`
}

type RigidState struct {
	State []float64 `json:"state"`
	Time  float64   `json:"time"`
}

// CaptureBody copies the evolving particle state out of a body.
func CaptureBody(b *body.Body) *BodyState {
	n := b.N()
	st := &BodyState{
		Pos:  make([]mgl64.Vec2, n),
		Vel:  make([]mgl64.Vec2, n),
		F:    make([]mgl64.Mat2, n),
		FDot: make([]mgl64.Mat2, n),
	}
	copy(st.Pos, b.Pos)
	copy(st.Vel, b.Vel)
	copy(st.F, b.F)
	copy(st.FDot, b.FDot)
	return st
}

// Apply writes the captured state back into a body generated from the
// same configuration.
func (st *BodyState) Apply(b *body.Body) error {
	if len(st.Pos) != b.N() {
		return fmt.Errorf("output: checkpoint has %d particles for %q, body has %d", len(st.Pos), b.Name, b.N())
	}
	copy(b.Pos, st.Pos)
	copy(b.Vel, st.Vel)
	copy(b.F, st.F)
	copy(b.FDot, st.FDot)
	for i := 0; i < b.N(); i++ {
		b.Rho[i] = b.Mat.Rho0 / b.F[i].Det()
	}
	return nil
}

func checkpointName(index int) string {
	return fmt.Sprintf("checkpoint_%04d.json", index)
}

func (s *Store) WriteCheckpoint(index int, cp *Checkpoint) error {
	f, err := os.Create(filepath.Join(s.runDir, checkpointName(index)))
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	return enc.Encode(cp)
}

func LoadCheckpoint(runDir string, index int) (*Checkpoint, error) {
	data, err := os.ReadFile(filepath.Join(runDir, checkpointName(index)))
	if err != nil {
		return nil, err
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}
