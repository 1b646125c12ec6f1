package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal errors with "did you mean?"
// suggestions.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the four-layer override chain:
// defaults -> config file -> environment variables -> CLI flags.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	// 1. Resolve config path: CLI > env > default
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	// 2. Load config file (returns defaults if no file exists)
	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		ConfigPath:      cfgPath,
		DriveBin:        cfg.DriveBin,
		TestDir:         cfg.TestDir,
		FailStop:        cfg.FailStop,
		IgnoreMarker:    cfg.IgnoreMarker,
		WorkspaceMarker: cfg.WorkspaceMarker,
		Groups:          cfg.Groups,
		LogLevel:        cfg.LogLevel,
		Color:           cfg.Color,
	}

	// 3. Apply env overrides
	if env.DriveBin != "" {
		r.DriveBin = env.DriveBin
	}

	if env.TestDir != "" {
		r.TestDir = env.TestDir
	}

	if env.FailStop != nil {
		r.FailStop = *env.FailStop
	}

	// 4. Apply CLI overrides (pointer fields: nil = not specified)
	if cli.DriveBin != nil {
		r.DriveBin = *cli.DriveBin
	}

	if cli.TestDir != nil {
		r.TestDir = *cli.TestDir
	}

	if cli.FailStop != nil {
		r.FailStop = *cli.FailStop
	}

	if len(cli.Groups) > 0 {
		r.Groups = cli.Groups
	}

	if cli.NoColor {
		r.Color = ColorNever
	}

	// 5. The client runs with the test dir as its working directory, so
	// everything downstream wants it absolute.
	if r.TestDir != "" {
		abs, absErr := filepath.Abs(expandTilde(r.TestDir))
		if absErr != nil {
			return nil, fmt.Errorf("resolving test_dir %q: %w", r.TestDir, absErr)
		}

		r.TestDir = abs
	}

	if err := ValidateResolved(r); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return r, nil
}
