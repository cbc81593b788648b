package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// CSVHeader is the column layout of a trajectory file.
var CSVHeader = []string{"t", "v", "x"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one "t,v,x" row per sample of a [position, velocity]
// trajectory, preceded by the header row.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	row := make([]string, 3)
	for i, x := range tr.States {
		if len(x) != 2 {
			return fmt.Errorf("sample %d: %w: want 2 components, got %d", i, dynamo.ErrDimensionMismatch, len(x))
		}
		row[0] = formatFloat(tr.Times[i])
		row[1] = formatFloat(x[1])
		row[2] = formatFloat(x[0])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV back into [position, velocity]
// samples.
func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty trajectory file")
	}
	for i, h := range CSVHeader {
		if records[0][i] != h {
			return nil, fmt.Errorf("unexpected header %v", records[0])
		}
	}

	tr := dynamo.NewTrajectory(len(records) - 1)
	for i, record := range records[1:] {
		var vals [3]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			vals[j] = v
		}
		tr.Append(vals[0], dynamo.State{vals[2], vals[1]})
	}
	return tr, nil
}
