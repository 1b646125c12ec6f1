// Package harness is the run driver: it checks preconditions, runs the
// smoke check and the scenario groups in declared order, and summarizes
// the result.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tonimelisma/drivecheck/internal/check"
	"github.com/tonimelisma/drivecheck/internal/client"
	"github.com/tonimelisma/drivecheck/internal/fixture"
	"github.com/tonimelisma/drivecheck/internal/scenario"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// Precondition failures. Each aborts the run before any scenario.
var (
	ErrBinaryNotFound = errors.New("client executable not found")
	ErrNotInitialized = errors.New("test directory is not an initialized working copy")
	ErrStoreNotEmpty  = errors.New("remote store is not empty; this tool has destructive side effects and will erase your drive")
	ErrBasicFailed    = errors.New("basic smoke check failed")
)

// Options configures one run.
type Options struct {
	Binary          string
	TestDir         string
	WorkspaceMarker string
	IgnoreMarker    string
	FailStop        bool
	Groups          []scenario.Group

	// Executor runs client invocations; nil means client.ProcessExecutor.
	Executor client.Executor
	Out      *transcript.Printer
	Logger   *slog.Logger
}

// Summary is the outcome of a run.
type Summary struct {
	RunID      string      `json:"run_id"`
	Binary     string      `json:"binary"`
	TestDir    string      `json:"test_dir"`
	Tally      check.Tally `json:"tally"`
	Scenarios  int         `json:"scenarios"`
	Failed     []string    `json:"failed"`
	Stopped    bool        `json:"stopped"`
	StopReason string      `json:"stop_reason,omitempty"`
}

// OK reports whether every check passed and the run completed.
func (s *Summary) OK() bool {
	return !s.Stopped && s.Tally.Failed == 0 && len(s.Failed) == 0
}

// ResolveBinary returns the absolute path of the client executable: a
// path that exists as given, or else a name found on PATH.
func ResolveBinary(bin string) (string, error) {
	if bin == "" {
		return "", fmt.Errorf("%w: no path configured", ErrBinaryNotFound)
	}

	if info, err := os.Stat(bin); err == nil && !info.IsDir() {
		return filepath.Abs(bin)
	}

	found, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w (path=%q)", ErrBinaryNotFound, bin)
	}

	return filepath.Abs(found)
}

// CheckInitialized verifies testDir holds the working-copy marker.
func CheckInitialized(testDir, marker string) error {
	info, err := os.Stat(filepath.Join(testDir, marker))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: please init drive folder %s first", ErrNotInitialized, testDir)
	}

	return nil
}

// Run executes the smoke check and every group in opts.Groups. The summary
// is nil only when a precondition failed. A non-nil error with a summary
// means the run stopped early.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	bin, err := ResolveBinary(opts.Binary)
	if err != nil {
		return nil, err
	}

	if err := CheckInitialized(opts.TestDir, opts.WorkspaceMarker); err != nil {
		return nil, err
	}

	release, err := acquireLock(lockPath(opts.TestDir, opts.WorkspaceMarker))
	if err != nil {
		return nil, err
	}
	defer release()

	runID := uuid.NewString()
	logger := opts.Logger.With(slog.String("run_id", runID))

	executor := opts.Executor
	if executor == nil {
		executor = client.ProcessExecutor{}
	}

	report := check.NewReport(opts.Out)
	c := client.New(bin, opts.TestDir, executor, report, opts.Out, logger)
	env := &scenario.Env{Client: c, Report: report, Out: opts.Out}

	logger.Info("starting run",
		slog.String("binary", bin),
		slog.String("test_dir", opts.TestDir),
		slog.Int("groups", len(opts.Groups)),
		slog.Bool("fail_stop", opts.FailStop),
	)

	if err := checkEmpty(ctx, c); err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Binary: bin, TestDir: opts.TestDir}

	if err := scenario.Basic(ctx, env); err != nil {
		summary.Stopped = true
		summary.StopReason = err.Error()
		summary.Tally = report.Tally()
		opts.Out.Tally(summary.Tally.Passed, summary.Tally.Failed)

		return summary, fmt.Errorf("%w: %w", ErrBasicFailed, err)
	}

	mgr := fixture.NewManager(c, opts.Out, logger, filepath.Join(opts.TestDir, opts.IgnoreMarker), opts.FailStop)
	runErr := runGroups(ctx, mgr, env, opts.Groups, logger)

	for _, o := range mgr.Outcomes() {
		if o.Err != nil {
			summary.Failed = append(summary.Failed, o.Name)
		}
	}

	summary.Scenarios = len(mgr.Outcomes())
	summary.Tally = report.Tally()

	if runErr != nil {
		summary.Stopped = true
		summary.StopReason = runErr.Error()
	}

	opts.Out.Tally(summary.Tally.Passed, summary.Tally.Failed)

	logger.Info("run finished",
		slog.Int("passed", summary.Tally.Passed),
		slog.Int("failed", summary.Tally.Failed),
		slog.Int("scenarios", summary.Scenarios),
		slog.Bool("stopped", summary.Stopped),
	)

	return summary, runErr
}

// checkEmpty refuses to run against a store that already has content.
func checkEmpty(ctx context.Context, c *client.Client) error {
	entries, err := c.List(ctx, "")
	if err != nil {
		return fmt.Errorf("listing remote root: %w", err)
	}

	if len(entries) > 0 {
		return fmt.Errorf("%w (%d top-level entries)", ErrStoreNotEmpty, len(entries))
	}

	return nil
}

func runGroups(ctx context.Context, mgr *fixture.Manager, env *scenario.Env, groups []scenario.Group, logger *slog.Logger) error {
	for _, g := range groups {
		logger.Debug("running group", slog.String("group", g.Name), slog.Int("scenarios", len(g.Scenarios)))

		for _, s := range g.Scenarios {
			err := mgr.Run(ctx, s.Name, s.Files, func(ctx context.Context) error {
				return s.Body(ctx, env)
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}
