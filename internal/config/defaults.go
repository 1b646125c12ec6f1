package config

// Default values for configuration options. These are "layer 0" of the
// override chain and match the layout the client's own test suite uses:
// a `drive` binary next to an initialised `testdir/` working copy.
const (
	defaultDriveBin        = "drive"
	defaultTestDir         = "testdir"
	defaultIgnoreMarker    = ".driveignore"
	defaultWorkspaceMarker = ".gd"
	defaultLogLevel        = "info"
	defaultColor           = ColorAuto
)

// Color modes for transcript output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		DriveBin:        defaultDriveBin,
		TestDir:         defaultTestDir,
		IgnoreMarker:    defaultIgnoreMarker,
		WorkspaceMarker: defaultWorkspaceMarker,
		LogLevel:        defaultLogLevel,
		Color:           defaultColor,
	}
}
