// Package config implements TOML configuration loading, validation, and
// path resolution for drivecheck. It supports a four-layer override chain
// (defaults -> config file -> environment -> CLI flags).
package config

// Config is the top-level configuration structure parsed from a TOML file.
// All keys are flat; there are no sections.
type Config struct {
	DriveBin        string   `toml:"drive_bin"`
	TestDir         string   `toml:"test_dir"`
	FailStop        bool     `toml:"fail_stop"`
	IgnoreMarker    string   `toml:"ignore_marker"`
	WorkspaceMarker string   `toml:"workspace_marker"`
	Groups          []string `toml:"groups"`
	LogLevel        string   `toml:"log_level"`
	Color           string   `toml:"color"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Pointer fields distinguish "not specified" (nil)
// from "explicitly set to zero value": --fail-stop=false must beat a
// config file that says fail_stop = true.
type CLIOverrides struct {
	ConfigPath string   // --config flag (empty = use default)
	DriveBin   *string  // --bin flag
	TestDir    *string  // --test-dir flag
	FailStop   *bool    // --fail-stop flag
	Groups     []string // --group flags (empty = keep config value)
	NoColor    bool     // --no-color flag
}

// Resolved is the effective configuration after all four layers have been
// applied. TestDir is absolute.
type Resolved struct {
	ConfigPath      string   `json:"config_path"`
	DriveBin        string   `json:"drive_bin"`
	TestDir         string   `json:"test_dir"`
	FailStop        bool     `json:"fail_stop"`
	IgnoreMarker    string   `json:"ignore_marker"`
	WorkspaceMarker string   `json:"workspace_marker"`
	Groups          []string `json:"groups"`
	LogLevel        string   `json:"log_level"`
	Color           string   `json:"color"`
}
