package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/erik-sundell/solidsph/internal/body"
	"github.com/erik-sundell/solidsph/internal/config"
)

// Store owns the on-disk layout of simulation runs. Every run lives in
// its own directory under the base, named <config name>-<timestamp>.
type Store struct {
	baseDir string
	runDir  string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// CreateRun makes a fresh run directory and points the store at it.
func (s *Store) CreateRun(name string) (string, error) {
	dir := filepath.Join(s.baseDir, fmt.Sprintf("%s-%s", name, time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	s.runDir = dir
	return dir, nil
}

// OpenRun points the store at an existing run directory.
func (s *Store) OpenRun(dir string) {
	s.runDir = dir
}

func (s *Store) RunDir() string { return s.runDir }

// FindLatestRun returns the newest run directory for the given config
// name. The timestamp suffix sorts lexicographically.
func (s *Store) FindLatestRun(name string) (string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return "", err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), name+"-") {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("output: no run directory for %q under %s", name, s.baseDir)
	}
	sort.Strings(dirs)
	return filepath.Join(s.baseDir, dirs[len(dirs)-1]), nil
}

type RunMetadata struct {
	Name          string         `json:"name"`
	Timestamp     time.Time      `json:"timestamp"`
	Config        *config.Config `json:"config"`
	Particles     map[string]int `json:"particles"`
	Steps         int            `json:"steps"`
	Snapshots     int            `json:"snapshots"`
	SolverSeconds float64        `json:"solver_seconds"`
	IOSeconds     float64        `json:"io_seconds"`
}

func (s *Store) WriteMetadata(meta *RunMetadata) error {
	f, err := os.Create(filepath.Join(s.runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func LoadMetadata(runDir string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func snapshotName(bodyName string, index int) string {
	return fmt.Sprintf("%s_%04d.csv", bodyName, index)
}

var snapshotHeader = []string{"x", "y", "vx", "vy", "density", "contact_density", "fx", "fy"}

// WriteSnapshot dumps the particle state of each body at the given
// output interval index.
func (s *Store) WriteSnapshot(index int, bodies []*body.Body) error {
	for _, b := range bodies {
		if err := s.writeBodySnapshot(index, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeBodySnapshot(index int, b *body.Body) error {
	f, err := os.Create(filepath.Join(s.runDir, snapshotName(b.Name, index)))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(snapshotHeader); err != nil {
		return err
	}
	for i := 0; i < b.N(); i++ {
		row := []string{
			strconv.FormatFloat(b.Pos[i].X(), 'f', 6, 64),
			strconv.FormatFloat(b.Pos[i].Y(), 'f', 6, 64),
			strconv.FormatFloat(b.Vel[i].X(), 'f', 6, 64),
			strconv.FormatFloat(b.Vel[i].Y(), 'f', 6, 64),
			strconv.FormatFloat(b.Rho[i], 'f', 6, 64),
			strconv.FormatFloat(b.ContactDensity[i], 'f', 6, 64),
			strconv.FormatFloat(b.ContactForce[i].X(), 'f', 6, 64),
			strconv.FormatFloat(b.ContactForce[i].Y(), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshotPositions reads back the particle positions of one body
// snapshot, for the export commands.
func LoadSnapshotPositions(runDir, bodyName string, index int) ([][2]float64, error) {
	f, err := os.Open(filepath.Join(runDir, snapshotName(bodyName, index)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	pos := make([][2]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(records[i][0], 64)
		y, errY := strconv.ParseFloat(records[i][1], 64)
		if errX != nil || errY != nil {
			continue
		}
		pos = append(pos, [2]float64{x, y})
	}
	return pos, nil
}

// SnapshotIndices lists the interval indices for which a body snapshot
// exists in the run directory, in ascending order.
func SnapshotIndices(runDir, bodyName string) ([]int, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, err
	}
	var indices []int
	prefix := bodyName + "_"
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".csv")
		idx, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices, nil
}
