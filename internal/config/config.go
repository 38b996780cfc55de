// Package config holds the fixed constants that are load-bearing across
// the module (matching internal/config/constants.go's role in the
// teacher) and the optional sproutrc.yaml file that tunes a host's
// backend choice and VM limits.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the recognized extension for Sprout scripts.
const SourceFileExt = ".spt"

// Backend selects which execution backend a host runs a program on.
type Backend string

const (
	BackendVM   Backend = "vm"
	BackendTree Backend = "tree"
)

// Config tunes a host's backend choice and VM resource limits. Zero value
// is not valid; use Default() or Load().
type Config struct {
	Backend Backend `yaml:"backend"`

	StackSize   int `yaml:"stack_size"`
	FrameSize   int `yaml:"frame_size"`
	GlobalsSize int `yaml:"globals_size"`

	// DisableBuiltins hides named builtins from a fresh root environment
	// or symbol table, for sandboxing a REPL.
	DisableBuiltins []string `yaml:"disable_builtins,omitempty"`
}

// Default returns the configuration a host runs with when no
// sproutrc.yaml is present.
func Default() Config {
	return Config{
		Backend:     BackendVM,
		StackSize:   2048,
		FrameSize:   1024,
		GlobalsSize: 65535,
	}
}

// Load reads sproutrc.yaml at path, falling back to Default() for any
// field it doesn't set. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var overrides Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return cfg, err
	}

	if overrides.Backend != "" {
		cfg.Backend = overrides.Backend
	}
	if overrides.StackSize != 0 {
		cfg.StackSize = overrides.StackSize
	}
	if overrides.FrameSize != 0 {
		cfg.FrameSize = overrides.FrameSize
	}
	if overrides.GlobalsSize != 0 {
		cfg.GlobalsSize = overrides.GlobalsSize
	}
	if len(overrides.DisableBuiltins) > 0 {
		cfg.DisableBuiltins = overrides.DisableBuiltins
	}
	return cfg, nil
}

// Disabled reports whether name has been hidden by DisableBuiltins.
func (c Config) Disabled(name string) bool {
	for _, n := range c.DisableBuiltins {
		if n == name {
			return true
		}
	}
	return false
}
