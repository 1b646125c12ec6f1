package config

import (
	"os"
	"strconv"
)

// Environment variable names for overrides.
const (
	EnvConfig   = "DRIVECHECK_CONFIG"
	EnvDriveBin = "DRIVECHECK_BIN"
	EnvTestDir  = "DRIVECHECK_TEST_DIR"
	EnvFailStop = "DRIVECHECK_FAIL_STOP"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // DRIVECHECK_CONFIG: override config file path
	DriveBin   string // DRIVECHECK_BIN: client binary
	TestDir    string // DRIVECHECK_TEST_DIR: initialised working copy
	FailStop   *bool  // DRIVECHECK_FAIL_STOP: nil when unset or unparsable
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// An unparsable DRIVECHECK_FAIL_STOP is ignored rather than fatal.
func ReadEnvOverrides() EnvOverrides {
	env := EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		DriveBin:   os.Getenv(EnvDriveBin),
		TestDir:    os.Getenv(EnvTestDir),
	}

	if raw := os.Getenv(EnvFailStop); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			env.FailStop = &v
		}
	}

	return env
}
