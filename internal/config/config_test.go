package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/msdsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "msd_model" {
		t.Errorf("expected model msd_model, got %s", cfg.Model)
	}
	if cfg.Dt != 0.01 {
		t.Errorf("expected dt 0.01, got %f", cfg.Dt)
	}
	if cfg.Steps != 1000 {
		t.Errorf("expected 1000 steps, got %d", cfg.Steps)
	}
	p := cfg.PhysicsParams()
	if p.K != 1 || p.C != 1 || p.M != 1 || p.X0 != 0 || p.V0 != 1 {
		t.Errorf("unexpected default params %+v", p)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, true},
		{"negative dt", func(c *Config) { c.Dt = -1 }, true},
		{"negative steps", func(c *Config) { c.Steps = -5 }, true},
		{"bad store", func(c *Config) { c.Output.Store = "redis" }, true},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }, true},
		{"sqlite svg", func(c *Config) { c.Output.Store = "sqlite"; c.Output.Format = "svg" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Dt = 0
	if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Params.K = 4
	cfg.Init.Pos = 2.5
	cfg.Steps = 50
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Params.K != 4 || loaded.Init.Pos != 2.5 || loaded.Steps != 50 {
		t.Errorf("unexpected loaded config %+v", loaded)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("params:\n  c: 0\ndt: 0.005\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Params.C != 0 || cfg.Dt != 0.005 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Params.K != 1 || cfg.Steps != 1000 || cfg.Output.Dir != "workspace" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestMerge_OverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	if err := os.WriteFile(path, []byte("steps: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("stiff")
	if err := cfg.Merge(path); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if cfg.Steps != 50 {
		t.Errorf("expected steps 50, got %d", cfg.Steps)
	}
	if cfg.Params.K != 100 || cfg.Dt != 0.001 {
		t.Errorf("preset values lost: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("undamped")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params.C != 0 {
		t.Errorf("expected c 0, got %f", cfg.Params.C)
	}

	cfg.Params.C = 42
	if GetPreset("undamped").Params.C != 0 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestLayout(t *testing.T) {
	l := NewLayout("out", "20240131-235958-0a1b2c3d")

	if got := l.Dir(); got != filepath.Join("out", "20240131-235958-0a1b2c3d") {
		t.Errorf("Dir() = %s", got)
	}
	if got := l.CSVPath("msd_model"); got != filepath.Join("out", "20240131-235958-0a1b2c3d", "ode_msd_model.csv") {
		t.Errorf("CSVPath() = %s", got)
	}
	if got := l.FigurePath("msd_model", "png"); got != filepath.Join("out", "20240131-235958-0a1b2c3d", "img_msd_model.png") {
		t.Errorf("FigurePath() = %s", got)
	}

	if NewLayout("", "run").Base != DefaultOutDir {
		t.Error("empty base should fall back to the default output dir")
	}
}

func TestLayoutCreate(t *testing.T) {
	l := NewLayout(t.TempDir(), time.Now().Format(TimestampFormat))
	if err := l.Create(); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(l.Dir()); err != nil || !info.IsDir() {
		t.Errorf("run directory not created: %v", err)
	}
}
