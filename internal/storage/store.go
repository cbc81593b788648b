package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/physics"
)

// ErrRunNotFound is returned by every Store for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	K         float64            `json:"k"`
	C         float64            `json:"c"`
	M         float64            `json:"m"`
	X0        float64            `json:"x0"`
	V0        float64            `json:"v0"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Samples   int                `json:"samples"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewRunMetadata describes a run of model with parameters p.
func NewRunMetadata(model string, p physics.Params, metrics map[string]float64) RunMetadata {
	return RunMetadata{
		Model:   model,
		K:       p.K,
		C:       p.C,
		M:       p.M,
		X0:      p.X0,
		V0:      p.V0,
		Steps:   p.Steps,
		Dt:      p.Dt,
		Metrics: metrics,
	}
}

func (m RunMetadata) Params() physics.Params {
	return physics.Params{K: m.K, C: m.C, M: m.M, X0: m.X0, V0: m.V0, Steps: m.Steps, Dt: m.Dt}
}

// Store persists trajectories together with their run metadata.
type Store interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, meta RunMetadata, tr *dynamo.Trajectory) (string, error)
	List(ctx context.Context) ([]RunMetadata, error)
	Load(ctx context.Context, runID string) (*RunMetadata, error)
	LoadTrajectory(ctx context.Context, runID string) (*dynamo.Trajectory, error)
}

// NewRunID returns "<YYYYmmdd-HHMMSS>-<8 hex>".
func NewRunID(now time.Time) string {
	return now.Format(config.TimestampFormat) + "-" + uuid.NewString()[:8]
}

func NewStore(kind, dir string) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir), nil
	case "sqlite":
		return NewSQLiteStore(dir), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

func prepare(meta *RunMetadata, tr *dynamo.Trajectory) {
	if meta.ID == "" {
		meta.ID = NewRunID(time.Now())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.Model == "" {
		meta.Model = config.DefaultModel
	}
	meta.Samples = tr.Len()
}
