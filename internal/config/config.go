// Package config loads the ambient configuration shared by every cmd/soulc
// subcommand: diagnostic limits, debug toggles, and resolver mode flags
// that a CLI flag alone doesn't cover. Values come from environment
// variables first, then an optional YAML file overlay, following the same
// env-tag/file-tag split the rest of the ecosystem uses for this.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Options is the full set of ambient knobs a compilation run can be tuned
// with, independent of which file is being compiled.
type Options struct {
	// MaxDiagnostics is loaded from the environment or YAML file but is
	// read by no stage: no cap is applied to the faults collected.
	MaxDiagnostics int `env:"SOULC_MAX_DIAGNOSTICS" yaml:"max_diagnostics"`

	// DebugInternal raises the CLI's log level to debug, as --debug does.
	// InternalError entries stay ordinary accumulated faults; none is
	// turned into a panic.
	DebugInternal bool `env:"SOULC_DEBUG_INTERNAL" yaml:"debug_internal"`

	// NameBlocks is loaded from the environment or YAML file (default true)
	// but is read by no package; the resolver has no block-naming mode.
	NameBlocks bool `env:"SOULC_NAME_BLOCKS" yaml:"name_blocks" envDefault:"true"`

	// Color forces ANSI-colored diagnostic rendering regardless of
	// whether stdout is a terminal.
	Color bool `env:"SOULC_COLOR" yaml:"color"`
}

// Default returns the zero-config Options: no diagnostic cap,
// DebugInternal off, NameBlocks on, color auto-detected.
func Default() Options {
	return Options{NameBlocks: true}
}

// Load populates Options from environment variables, then overlays path's
// YAML contents if path is non-empty. Env vars always win over an absent
// YAML key, but a YAML value present in the file wins over its env default
// since the file is the more specific, explicitly-opted-into source.
func Load(path string) (Options, error) {
	opts := Options{}
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("reading environment: %w", err)
	}

	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, nil
}
