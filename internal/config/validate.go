package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validColors = map[string]bool{
	ColorAuto:   true,
	ColorAlways: true,
	ColorNever:  true,
}

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.DriveBin == "" {
		errs = append(errs, errors.New("drive_bin: must not be empty"))
	}

	if cfg.TestDir == "" {
		errs = append(errs, errors.New("test_dir: must not be empty"))
	}

	errs = append(errs, validateMarker("ignore_marker", cfg.IgnoreMarker)...)
	errs = append(errs, validateMarker("workspace_marker", cfg.WorkspaceMarker)...)

	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", cfg.LogLevel))
	}

	if !validColors[cfg.Color] {
		errs = append(errs, fmt.Errorf("color: must be one of auto, always, never; got %q", cfg.Color))
	}

	seen := make(map[string]bool, len(cfg.Groups))

	for _, g := range cfg.Groups {
		if seen[g] {
			errs = append(errs, fmt.Errorf("groups: duplicate group %q", g))
		}

		seen[g] = true
	}

	return errors.Join(errs...)
}

// validateMarker checks that a marker is a bare file name inside the test
// directory. Markers with separators would escape the working copy.
func validateMarker(key, marker string) []error {
	if marker == "" {
		return []error{fmt.Errorf("%s: must not be empty", key)}
	}

	if strings.ContainsRune(marker, '/') || strings.ContainsRune(marker, filepath.Separator) ||
		marker == "." || marker == ".." {
		return []error{fmt.Errorf("%s: must be a plain file name, got %q", key, marker)}
	}

	return nil
}

// ValidateResolved checks constraints on the fully resolved configuration,
// after env and CLI overrides have been applied.
func ValidateResolved(r *Resolved) error {
	var errs []error

	if r.DriveBin == "" {
		errs = append(errs, errors.New("drive_bin: must not be empty"))
	}

	if r.TestDir == "" {
		errs = append(errs, errors.New("test_dir: must not be empty"))
	} else if !filepath.IsAbs(r.TestDir) {
		errs = append(errs, fmt.Errorf("test_dir: must be absolute after expansion, got %q", r.TestDir))
	}

	return errors.Join(errs...)
}
