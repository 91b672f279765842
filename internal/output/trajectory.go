package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// RigidSample is one row of a rigid body's recorded trajectory.
type RigidSample struct {
	T     float64    `json:"t"`
	Step  int        `json:"step"`
	COM   [2]float64 `json:"com"`
	Vel   [2]float64 `json:"vel"`
	Force [2]float64 `json:"force"`
}

var rigidHeader = []string{"t", "step", "com_x", "com_y", "vel_x", "vel_y", "force_x", "force_y"}

func rigidName(bodyName string) string {
	return fmt.Sprintf("rigid_%s.csv", bodyName)
}

// AppendRigid appends one trajectory row, creating the file with its
// header on first use. Values are written with full precision so the
// analyze command sees exactly what the solver computed.
func (s *Store) AppendRigid(bodyName string, sample RigidSample) error {
	path := filepath.Join(s.runDir, rigidName(bodyName))
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if fresh {
		if err := w.Write(rigidHeader); err != nil {
			return err
		}
	}
	row := []string{
		strconv.FormatFloat(sample.T, 'g', -1, 64),
		strconv.Itoa(sample.Step),
		strconv.FormatFloat(sample.COM[0], 'g', -1, 64),
		strconv.FormatFloat(sample.COM[1], 'g', -1, 64),
		strconv.FormatFloat(sample.Vel[0], 'g', -1, 64),
		strconv.FormatFloat(sample.Vel[1], 'g', -1, 64),
		strconv.FormatFloat(sample.Force[0], 'g', -1, 64),
		strconv.FormatFloat(sample.Force[1], 'g', -1, 64),
	}
	return w.Write(row)
}

// LoadRigid reads a recorded rigid trajectory back.
func LoadRigid(runDir, bodyName string) ([]RigidSample, error) {
	f, err := os.Open(filepath.Join(runDir, rigidName(bodyName)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]RigidSample, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 8 {
			continue
		}
		vals := make([]float64, 8)
		bad := false
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				bad = true
				break
			}
			vals[j] = v
		}
		if bad {
			continue
		}
		samples = append(samples, RigidSample{
			T:     vals[0],
			Step:  int(vals[1]),
			COM:   [2]float64{vals[2], vals[3]},
			Vel:   [2]float64{vals[4], vals[5]},
			Force: [2]float64{vals[6], vals[7]},
		})
	}
	return samples, nil
}
