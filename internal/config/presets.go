package config

import "sort"

var Presets = map[string]*Config{
	"default": withParams(func(c *Config) {
		c.Comment = "k=1 c=1 m=1, released from rest position at v=1"
	}),
	"undamped": withParams(func(c *Config) {
		c.Params.C = 0
		c.Comment = "no damping, energy is conserved"
	}),
	"critical": withParams(func(c *Config) {
		c.Params.C = 2
		c.Comment = "critically damped, zeta=1"
		c.Init = InitConfig{Pos: 1, Vel: 0}
	}),
	"overdamped": withParams(func(c *Config) {
		c.Params.C = 5
		c.Comment = "overdamped, zeta=2.5"
		c.Init = InitConfig{Pos: 1, Vel: 0}
	}),
	"stiff": withParams(func(c *Config) {
		c.Params.K = 100
		c.Params.C = 0.5
		c.Comment = "stiff spring, omega=10, small step"
		c.Dt = 0.001
		c.Steps = 10000
	}),
	"fine": withParams(func(c *Config) {
		c.Comment = "default system at dt=0.001"
		c.Dt = 0.001
		c.Steps = 10000
	}),
}

func withParams(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
