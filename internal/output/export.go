package output

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	Metadata  *RunMetadata             `json:"metadata"`
	Snapshots map[string][]int         `json:"snapshots"`
	Rigid     map[string][]RigidSample `json:"rigid"`
}

// CollectExport gathers a run directory into one export document:
// the metadata, which snapshot indices exist per body, and the full
// rigid trajectories.
func CollectExport(runDir string) (*ExportData, error) {
	meta, err := LoadMetadata(runDir)
	if err != nil {
		return nil, err
	}
	data := &ExportData{
		Metadata:  meta,
		Snapshots: make(map[string][]int),
		Rigid:     make(map[string][]RigidSample),
	}
	if meta.Config != nil {
		for _, bc := range meta.Config.Bodies {
			indices, err := SnapshotIndices(runDir, bc.Name)
			if err != nil {
				return nil, err
			}
			data.Snapshots[bc.Name] = indices
			if bc.Dynamics == "rigid" {
				samples, err := LoadRigid(runDir, bc.Name)
				if err != nil {
					continue // trajectory file may be absent for a cancelled run
				}
				data.Rigid[bc.Name] = samples
			}
		}
	}
	return data, nil
}

func ExportJSON(path string, data *ExportData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONStdout(data *ExportData) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
