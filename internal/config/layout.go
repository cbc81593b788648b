package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// TimestampFormat prefixes run ids, e.g. 20240131-235959.
const TimestampFormat = "20060102-150405"

// Layout resolves output paths for one run: <base>/<run id>/ode_<model>.csv
// and <base>/<run id>/img_<model>.<ext>.
type Layout struct {
	Base  string
	Title string
}

// NewLayout places runID under base, falling back to DefaultOutDir.
func NewLayout(base, runID string) Layout {
	if base == "" {
		base = DefaultOutDir
	}
	return Layout{Base: base, Title: runID}
}

func (l Layout) Dir() string {
	return filepath.Join(l.Base, l.Title)
}

func (l Layout) CSVPath(model string) string {
	return filepath.Join(l.Dir(), fmt.Sprintf("ode_%s.csv", model))
}

func (l Layout) FigurePath(model, ext string) string {
	return filepath.Join(l.Dir(), fmt.Sprintf("img_%s.%s", model, ext))
}

func (l Layout) Create() error {
	return os.MkdirAll(l.Dir(), 0755)
}
