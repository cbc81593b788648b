package config

import (
	"fmt"
	"os"

	"github.com/san-kum/msdsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutDir = "workspace"
	DefaultStore  = "file"
	DefaultFormat = "png"
	DefaultModel  = "msd_model"
)

type Config struct {
	Model   string       `yaml:"model"`
	Params  ParamsConfig `yaml:"params"`
	Init    InitConfig   `yaml:"init_state"`
	Steps   int          `yaml:"steps"`
	Dt      float64      `yaml:"dt"`
	Output  OutputConfig `yaml:"output"`
	Comment string       `yaml:"comment,omitempty"`
}

type ParamsConfig struct {
	K float64 `yaml:"k"`
	C float64 `yaml:"c"`
	M float64 `yaml:"m"`
}

type InitConfig struct {
	Pos float64 `yaml:"pos"`
	Vel float64 `yaml:"vel"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Store  string `yaml:"store"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Params: ParamsConfig{
			K: physics.DefaultStiffness,
			C: physics.DefaultDamping,
			M: physics.DefaultMass,
		},
		Init: InitConfig{
			Pos: physics.DefaultPosition,
			Vel: physics.DefaultVelocity,
		},
		Steps: physics.DefaultSteps,
		Dt:    physics.DefaultDt,
		Output: OutputConfig{
			Dir:    DefaultOutDir,
			Store:  DefaultStore,
			Format: DefaultFormat,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PhysicsParams converts the configuration into model parameters.
func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		K:     c.Params.K,
		C:     c.Params.C,
		M:     c.Params.M,
		X0:    c.Init.Pos,
		V0:    c.Init.Vel,
		Steps: c.Steps,
		Dt:    c.Dt,
	}
}

func (c *Config) Validate() error {
	if err := c.PhysicsParams().Validate(); err != nil {
		return err
	}
	if c.Model == "" {
		return fmt.Errorf("model name must not be empty")
	}
	switch c.Output.Store {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Output.Store)
	}
	switch c.Output.Format {
	case "png", "svg", "none":
	default:
		return fmt.Errorf("unknown plot format: %s", c.Output.Format)
	}
	return nil
}
