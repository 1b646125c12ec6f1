package scenario

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/drivecheck/internal/check"
	"github.com/tonimelisma/drivecheck/internal/client"
	"github.com/tonimelisma/drivecheck/internal/fakedrive"
	"github.com/tonimelisma/drivecheck/internal/fixture"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

type testRun struct {
	env     *Env
	manager *fixture.Manager
	out     *bytes.Buffer
}

func newTestRun(t *testing.T, quirks fakedrive.Quirks) *testRun {
	t.Helper()

	dir := t.TempDir()
	exec := fakedrive.Executor{Quirks: quirks}

	res, err := exec.Execute(context.Background(), client.Invocation{Argv: []string{"drive", "init"}, Dir: dir})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)

	var buf bytes.Buffer

	out := transcript.New(&buf, "never")
	report := check.NewReport(out)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	c := client.New("drive", dir, exec, report, out, logger)

	return &testRun{
		env:     &Env{Client: c, Report: report, Out: out},
		manager: fixture.NewManager(c, out, logger, filepath.Join(dir, ".driveignore"), false),
		out:     &buf,
	}
}

func (r *testRun) run(t *testing.T, groups []Group) {
	t.Helper()

	for _, g := range groups {
		for _, s := range g.Scenarios {
			err := r.manager.Run(context.Background(), s.Name, s.Files, func(ctx context.Context) error {
				return s.Body(ctx, r.env)
			})
			require.NoError(t, err)
		}
	}
}

func (r *testRun) failed() []string {
	var names []string

	for _, o := range r.manager.Outcomes() {
		if o.Err != nil {
			names = append(names, o.Name)
		}
	}

	return names
}

func TestGroups_PassAgainstConformingClient(t *testing.T) {
	r := newTestRun(t, fakedrive.Quirks{})

	require.NoError(t, Basic(context.Background(), r.env))
	r.run(t, Groups())

	assert.Empty(t, r.failed(), r.out.String())
	assert.Zero(t, r.env.Report.Tally().Failed)
	assert.Positive(t, r.env.Report.Tally().Passed)
	assert.Len(t, r.manager.Outcomes(), 26)
}

func TestGroups_DetectDeviations(t *testing.T) {
	tests := []struct {
		name   string
		quirks fakedrive.Quirks
		want   []string
	}{
		{
			name:   "rename clobbers existing file",
			quirks: fakedrive.Quirks{RenameClobbers: true},
			want:   []string{"rename to existing file"},
		},
		{
			name:   "list of a file is empty",
			quirks: fakedrive.Quirks{ListFileEmpty: true},
			want:   []string{"list file, issue #97"},
		},
		{
			name:   "trash of missing path succeeds",
			quirks: fakedrive.Quirks{TrashIgnoresMissing: true},
			want:   []string{"trash non-existing file"},
		},
		{
			// The checksum of empty content happens to be right.
			name:   "wrong checksum",
			quirks: fakedrive.Quirks{StatWrongChecksum: true},
			want:   []string{"stat file with size=6", "stat file with size=256"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRun(t, tt.quirks)
			r.run(t, Groups())

			assert.Equal(t, tt.want, r.failed())
			assert.Equal(t, len(tt.want), r.env.Report.Tally().Failed)
		})
	}
}

func TestGroups_Order(t *testing.T) {
	var names []string

	seen := make(map[string]bool)

	for _, g := range Groups() {
		names = append(names, g.Name)

		for _, s := range g.Scenarios {
			assert.False(t, seen[s.Name], "duplicate scenario %q", s.Name)
			seen[s.Name] = true
		}
	}

	assert.Equal(t, []string{"list", "rename", "move", "stat", "pull", "trash"}, names)
}

func TestSelect(t *testing.T) {
	groups := Groups()

	all, err := Select(groups, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(groups))

	picked, err := Select(groups, []string{"trash", "list"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "list", picked[0].Name)
	assert.Equal(t, "trash", picked[1].Name)

	_, err = Select(groups, []string{"copy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"copy"`)
	assert.Contains(t, err.Error(), "list, rename, move, stat, pull, trash")
}

func TestListGroup_Transcript(t *testing.T) {
	r := newTestRun(t, fakedrive.Quirks{})

	list, err := Select(Groups(), []string{"list"})
	require.NoError(t, err)

	r.run(t, list)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list", r.out.Bytes())
}

func TestBasic_LeavesStoreEmpty(t *testing.T) {
	r := newTestRun(t, fakedrive.Quirks{})

	require.NoError(t, Basic(context.Background(), r.env))

	left, err := r.env.Client.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Contains(t, r.out.String(), "# basic tests\n")
}

func TestBasic_FailsWithoutWorkingCopy(t *testing.T) {
	r := newTestRun(t, fakedrive.Quirks{})
	r.env.Client = client.New("drive", t.TempDir(), fakedrive.Executor{}, r.env.Report, r.env.Out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// No working copy: push itself fails.
	err := Basic(context.Background(), r.env)
	require.Error(t, err)
	assert.True(t, check.IsFailure(err))
}
