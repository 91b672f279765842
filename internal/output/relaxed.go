package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/body"
)

// RelaxedDir is where the relax mode leaves its particle files. The
// directory has no timestamp so a later reload run can find it from
// the config name alone.
func RelaxedDir(baseDir, configName string) string {
	return filepath.Join(baseDir, configName+"-relaxed")
}

func relaxedName(bodyName string) string {
	return fmt.Sprintf("%s_relaxed.csv", bodyName)
}

// WriteRelaxed stores the body's current particle positions with full
// precision so a reload reproduces them bit for bit.
func WriteRelaxed(dir string, b *body.Body) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, relaxedName(b.Name)))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for i := 0; i < b.N(); i++ {
		row := []string{
			strconv.FormatFloat(b.Pos[i].X(), 'g', -1, 64),
			strconv.FormatFloat(b.Pos[i].Y(), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// LoadRelaxed reads relaxed particle positions for one body.
func LoadRelaxed(dir, bodyName string) ([]mgl64.Vec2, error) {
	f, err := os.Open(filepath.Join(dir, relaxedName(bodyName)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	pos := make([]mgl64.Vec2, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(records[i][0], 64)
		y, errY := strconv.ParseFloat(records[i][1], 64)
		if errX != nil || errY != nil {
			continue
		}
		pos = append(pos, mgl64.Vec2{x, y})
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("output: no particles in %s", relaxedName(bodyName))
	}
	return pos, nil
}
