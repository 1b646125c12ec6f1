package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

// clearEnv blanks every override variable so a developer's shell cannot
// leak into Resolve tests.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvConfig, EnvDriveBin, EnvTestDir, EnvFailStop} {
		t.Setenv(key, "")
	}
}

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeTestConfig(t, `
drive_bin = "/opt/drive/bin/drive"
test_dir = "/srv/testdir"
fail_stop = true
ignore_marker = ".gdignore"
workspace_marker = ".gd"
groups = ["list", "trash"]
log_level = "debug"
color = "never"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/drive/bin/drive", cfg.DriveBin)
	assert.Equal(t, "/srv/testdir", cfg.TestDir)
	assert.True(t, cfg.FailStop)
	assert.Equal(t, ".gdignore", cfg.IgnoreMarker)
	assert.Equal(t, ".gd", cfg.WorkspaceMarker)
	assert.Equal(t, []string{"list", "trash"}, cfg.Groups)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ColorNever, cfg.Color)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeTestConfig(t, "fail_stop = true\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.FailStop)
	assert.Equal(t, defaultDriveBin, cfg.DriveBin)
	assert.Equal(t, defaultTestDir, cfg.TestDir)
	assert.Equal(t, defaultIgnoreMarker, cfg.IgnoreMarker)
	assert.Equal(t, defaultWorkspaceMarker, cfg.WorkspaceMarker)
	assert.Equal(t, ColorAuto, cfg.Color)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeTestConfig(t, "fail_stop = \n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_ValidationErrorsAccumulate(t *testing.T) {
	path := writeTestConfig(t, `
log_level = "loud"
color = "sometimes"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "color")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)

	missing := filepath.Join(t.TempDir(), "missing.toml")

	r, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: missing})
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, defaultDriveBin, r.DriveBin)
	assert.Equal(t, filepath.Join(cwd, defaultTestDir), r.TestDir)
	assert.False(t, r.FailStop)
	assert.Equal(t, missing, r.ConfigPath)
}

func TestResolve_Precedence(t *testing.T) {
	clearEnv(t)

	path := writeTestConfig(t, `
drive_bin = "from-file"
test_dir = "/file/testdir"
fail_stop = true
groups = ["list"]
`)

	t.Run("file beats defaults", func(t *testing.T) {
		r, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path})
		require.NoError(t, err)
		assert.Equal(t, "from-file", r.DriveBin)
		assert.Equal(t, "/file/testdir", r.TestDir)
		assert.True(t, r.FailStop)
		assert.Equal(t, []string{"list"}, r.Groups)
	})

	t.Run("env beats file", func(t *testing.T) {
		off := false
		env := EnvOverrides{DriveBin: "from-env", TestDir: "/env/testdir", FailStop: &off}

		r, err := Resolve(env, CLIOverrides{ConfigPath: path})
		require.NoError(t, err)
		assert.Equal(t, "from-env", r.DriveBin)
		assert.Equal(t, "/env/testdir", r.TestDir)
		assert.False(t, r.FailStop)
	})

	t.Run("cli beats env", func(t *testing.T) {
		off := false
		on := true
		bin := "from-cli"
		dir := "/cli/testdir"
		env := EnvOverrides{DriveBin: "from-env", TestDir: "/env/testdir", FailStop: &off}
		cli := CLIOverrides{
			ConfigPath: path,
			DriveBin:   &bin,
			TestDir:    &dir,
			FailStop:   &on,
			Groups:     []string{"move", "stat"},
			NoColor:    true,
		}

		r, err := Resolve(env, cli)
		require.NoError(t, err)
		assert.Equal(t, "from-cli", r.DriveBin)
		assert.Equal(t, "/cli/testdir", r.TestDir)
		assert.True(t, r.FailStop)
		assert.Equal(t, []string{"move", "stat"}, r.Groups)
		assert.Equal(t, ColorNever, r.Color)
	})
}

func TestResolve_EnvConfigPath(t *testing.T) {
	clearEnv(t)

	path := writeTestConfig(t, "drive_bin = \"env-config\"\n")

	r, err := Resolve(EnvOverrides{ConfigPath: path}, CLIOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "env-config", r.DriveBin)
	assert.Equal(t, path, r.ConfigPath)
}

func TestResolve_BadFile(t *testing.T) {
	clearEnv(t)

	path := writeTestConfig(t, "bogus = 1\n")

	_, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path})
	require.Error(t, err)
}

func TestResolve_EmptyBinaryFromCLI(t *testing.T) {
	clearEnv(t)

	empty := ""
	cli := CLIOverrides{ConfigPath: filepath.Join(t.TempDir(), "x.toml"), DriveBin: &empty}

	_, err := Resolve(EnvOverrides{}, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drive_bin")
}
