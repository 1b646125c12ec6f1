package fixture

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/drivecheck/internal/check"
	"github.com/tonimelisma/drivecheck/internal/client"
	"github.com/tonimelisma/drivecheck/internal/fakedrive"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// breakingExecutor forwards to the fake client but reports a non-zero exit
// for one subcommand.
type breakingExecutor struct {
	next client.Executor
	fail string
}

func (b breakingExecutor) Execute(ctx context.Context, inv client.Invocation) (client.Result, error) {
	if len(inv.Argv) > 1 && inv.Argv[1] == b.fail {
		return client.Result{ExitCode: 1, Stderr: []byte("injected failure\n")}, nil
	}

	return b.next.Execute(ctx, inv)
}

type harness struct {
	dir     string
	client  *client.Client
	report  *check.Report
	manager *Manager
	out     *bytes.Buffer
}

func newHarness(t *testing.T, exec client.Executor, failStop bool) *harness {
	t.Helper()

	dir := t.TempDir()

	res, err := fakedrive.Executor{}.Execute(context.Background(), client.Invocation{Argv: []string{"drive", "init"}, Dir: dir})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)

	var buf bytes.Buffer

	out := transcript.New(&buf, "never")
	report := check.NewReport(out)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	c := client.New("drive", dir, exec, report, out, logger)

	return &harness{
		dir:     dir,
		client:  c,
		report:  report,
		manager: NewManager(c, out, logger, filepath.Join(dir, ".driveignore"), failStop),
		out:     &buf,
	}
}

func TestRun_SetupBodyCleanup(t *testing.T) {
	h := newHarness(t, fakedrive.Executor{}, false)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(h.dir, ".driveignore"), []byte("*\n"), 0o600))

	var seen []string

	err := h.manager.Run(ctx, "setup and cleanup", []File{F("a/b.txt", "b"), F("c.txt", "")}, func(ctx context.Context) error {
		var err error
		seen, err = h.client.ListRecursive(ctx, "")

		return err
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/a/b.txt", "/c.txt"}, seen)
	assert.NoFileExists(t, filepath.Join(h.dir, ".driveignore"))

	left, err := h.client.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, left)

	out := h.out.String()
	assert.Less(t, strings.Index(out, "push -piped a/b.txt"), strings.Index(out, "# setup and cleanup"))
	assert.Less(t, strings.Index(out, "# setup and cleanup"), strings.Index(out, "# clean up"))

	require.Len(t, h.manager.Outcomes(), 1)
	assert.NoError(t, h.manager.Outcomes()[0].Err)
}

func TestRun_FailureAbsorbed(t *testing.T) {
	h := newHarness(t, fakedrive.Executor{}, false)
	ctx := context.Background()

	err := h.manager.Run(ctx, "failing", []File{F("a.txt", "a")}, func(context.Context) error {
		return h.report.Equal(1, 2)
	})
	require.NoError(t, err)

	require.Len(t, h.manager.Outcomes(), 1)
	assert.True(t, check.IsFailure(h.manager.Outcomes()[0].Err))
	assert.Contains(t, h.out.String(), `scenario "failing" failed`)

	// The next scenario starts from an empty store.
	err = h.manager.Run(ctx, "next", nil, func(ctx context.Context) error {
		got, err := h.client.List(ctx, "")
		if err != nil {
			return err
		}

		return h.report.Equal([]string{}, got)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, h.report.Tally().Failed)
}

func TestRun_FailStop(t *testing.T) {
	h := newHarness(t, fakedrive.Executor{}, true)

	err := h.manager.Run(context.Background(), "failing", []File{F("a.txt", "a")}, func(context.Context) error {
		return h.report.True(false)
	})

	var scenarioErr *ScenarioError
	require.ErrorAs(t, err, &scenarioErr)
	assert.Equal(t, "failing", scenarioErr.Scenario)
	assert.True(t, check.IsFailure(err))

	left, err := h.client.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, left, "cleanup still runs in fail-stop mode")
}

func TestRun_SetupFailureSkipsBody(t *testing.T) {
	h := newHarness(t, breakingExecutor{next: fakedrive.Executor{}, fail: "push"}, false)

	called := false

	err := h.manager.Run(context.Background(), "broken setup", []File{F("a.txt", "a")}, func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)

	assert.False(t, called)
	require.Len(t, h.manager.Outcomes(), 1)
	assert.Error(t, h.manager.Outcomes()[0].Err)
}

func TestRun_DirtyStore(t *testing.T) {
	h := newHarness(t, breakingExecutor{next: fakedrive.Executor{}, fail: "emptytrash"}, false)

	err := h.manager.Run(context.Background(), "dirty", []File{F("a.txt", "a")}, func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, ErrDirtyStore)
}

func TestRun_TrashFails(t *testing.T) {
	h := newHarness(t, breakingExecutor{next: fakedrive.Executor{}, fail: "trash"}, false)

	err := h.manager.Run(context.Background(), "trash fails", []File{F("a.txt", "a")}, func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, ErrDirtyStore)
}

func TestRun_Canceled(t *testing.T) {
	h := newHarness(t, fakedrive.Executor{}, false)

	ctx, cancel := context.WithCancel(context.Background())

	err := h.manager.Run(ctx, "interrupted", []File{F("a.txt", "a")}, func(context.Context) error {
		cancel()
		return errors.New("interrupted mid-body")
	})
	require.ErrorIs(t, err, context.Canceled)

	left, err := h.client.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, left, "cleanup runs detached from cancellation")
}
