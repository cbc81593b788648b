package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/storage"
)

type ExportData struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Params  ParamsData         `json:"params"`
	Steps   int                `json:"steps"`
	Samples int                `json:"samples"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics"`
}

type ParamsData struct {
	K  float64 `json:"k"`
	C  float64 `json:"c"`
	M  float64 `json:"m"`
	X0 float64 `json:"x0"`
	V0 float64 `json:"v0"`
	Dt float64 `json:"dt"`
}

func NewExportData(meta *storage.RunMetadata, tr *dynamo.Trajectory) ExportData {
	data := ExportData{
		ID:    meta.ID,
		Model: meta.Model,
		Params: ParamsData{
			K: meta.K, C: meta.C, M: meta.M,
			X0: meta.X0, V0: meta.V0, Dt: meta.Dt,
		},
		Steps:   meta.Steps,
		Samples: tr.Len(),
		Times:   tr.Times,
		States:  make([][]float64, len(tr.States)),
		Metrics: meta.Metrics,
	}

	for i, s := range tr.States {
		data.States[i] = s
	}
	return data
}

// ExportJSON writes an indented JSON document of a stored run to w.
func ExportJSON(w io.Writer, meta *storage.RunMetadata, tr *dynamo.Trajectory) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, tr))
}
