//go:build e2e

package e2e

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	RunID string `json:"run_id"`
	Tally struct {
		Passed int `json:"passed"`
		Failed int `json:"failed"`
	} `json:"tally"`
	Scenarios int      `json:"scenarios"`
	Failed    []string `json:"failed"`
	Stopped   bool     `json:"stopped"`
}

func TestE2E_FakeClientPasses(t *testing.T) {
	dir := newFakeWorkingCopy(t)

	r := runHarness(t, nil, "run", "--bin", fakeBin, "--test-dir", dir, "--yes")
	require.Equal(t, 0, r.code, "stdout:\n%s\nstderr:\n%s", r.stdout, r.stderr)

	assert.Contains(t, r.stdout, "# basic tests")
	assert.Contains(t, r.stdout, "# rename to existing file")
	assert.Contains(t, r.stdout, "echo \"y\" | "+fakeBin+" trash")
	assert.True(t, strings.HasSuffix(r.stdout, "bad 0\n"))

	// The run lock is gone and the store is empty.
	assert.NoFileExists(t, filepath.Join(dir, ".gd", "drivecheck.pid"))

	list := exec.Command(fakeBin, "list", "-no-prompt", "")
	list.Dir = dir
	out, err := list.Output()
	require.NoError(t, err)
	assert.Empty(t, string(out))
}

func TestE2E_JSONSummary(t *testing.T) {
	dir := newFakeWorkingCopy(t)

	r := runHarness(t, []string{"FAKEDRIVE_QUIRKS=stat-wrong-checksum"},
		"--bin", fakeBin, "--test-dir", dir, "--yes", "--json", "--group", "stat")
	assert.Equal(t, 1, r.code)

	var s summary
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &s), r.stdout)

	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, 3, s.Scenarios)
	assert.Equal(t, []string{"stat file with size=6", "stat file with size=256"}, s.Failed)
	assert.Equal(t, 2, s.Tally.Failed)
	assert.False(t, s.Stopped)

	// The transcript moved to stderr.
	assert.Contains(t, r.stderr, "[expected]")
}

func TestE2E_FailStop(t *testing.T) {
	dir := newFakeWorkingCopy(t)

	r := runHarness(t, []string{"FAKEDRIVE_QUIRKS=rename-clobbers"},
		"--bin", fakeBin, "--test-dir", dir, "--yes", "--fail-stop")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "run stopped")
	assert.NotContains(t, r.stdout, "# move folder to another")
}

func TestE2E_Preconditions(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		r := runHarness(t, nil, "--bin", fakeBin, "--test-dir", t.TempDir(), "--yes")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "please init drive folder")
	})

	t.Run("store not empty", func(t *testing.T) {
		dir := newFakeWorkingCopy(t)

		push := exec.Command(fakeBin, "push", "-piped", "keep.txt")
		push.Dir = dir
		push.Stdin = strings.NewReader("keep")
		require.NoError(t, push.Run())

		r := runHarness(t, nil, "--bin", fakeBin, "--test-dir", dir, "--yes")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "will erase your drive")
	})

	t.Run("binary missing", func(t *testing.T) {
		r := runHarness(t, nil, "--bin", filepath.Join(t.TempDir(), "drive"), "--test-dir", newFakeWorkingCopy(t), "--yes")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "client executable not found")
	})
}

func TestE2E_ConfigFile(t *testing.T) {
	dir := newFakeWorkingCopy(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"drive_bin = \""+fakeBin+"\"\ntest_dir = \""+dir+"\"\ngroups = [\"pull\"]\ncolor = \"never\"\n"), 0o600))

	r := runHarness(t, nil, "--config", cfg, "config", "show")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, fakeBin)

	r = runHarness(t, nil, "--config", cfg, "--yes")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "# pull -piped folder")
	assert.NotContains(t, r.stdout, "# trash file")
}

func TestE2E_Groups(t *testing.T) {
	r := runHarness(t, nil, "groups")
	require.Equal(t, 0, r.code)

	for _, g := range []string{"list", "rename", "move", "stat", "pull", "trash"} {
		assert.Contains(t, r.stdout, g)
	}
}
