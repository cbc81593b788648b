package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
)

const metadataFile = "metadata.json"

// FileStore keeps one directory per run under baseDir holding
// metadata.json and ode_<model>.csv.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init(ctx context.Context) error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Layout returns the output paths of runID.
func (s *FileStore) Layout(runID string) config.Layout {
	return config.NewLayout(s.baseDir, runID)
}

func (s *FileStore) Save(ctx context.Context, meta RunMetadata, tr *dynamo.Trajectory) (string, error) {
	prepare(&meta, tr)

	// Encode first so an unencodable run leaves no directory behind.
	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	layout := s.Layout(meta.ID)
	if err := layout.Create(); err != nil {
		return "", err
	}

	csvFile, err := os.Create(layout.CSVPath(meta.Model))
	if err != nil {
		return "", err
	}
	if err := WriteCSV(csvFile, tr); err != nil {
		csvFile.Close()
		return "", fmt.Errorf("write trajectory: %w", err)
	}
	if err := csvFile.Close(); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(layout.Dir(), metadataFile))
	if err != nil {
		return "", err
	}
	if _, err := metaFile.Write(append(payload, '\n')); err != nil {
		metaFile.Close()
		return "", err
	}
	if err := metaFile.Close(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func (s *FileStore) List(ctx context.Context) ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(ctx, entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *FileStore) Load(ctx context.Context, runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *FileStore) LoadTrajectory(ctx context.Context, runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(ctx, runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(s.Layout(runID).CSVPath(meta.Model))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}
