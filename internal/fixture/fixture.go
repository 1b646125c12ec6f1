// Package fixture scopes a scenario: it pre-populates the remote store,
// runs the scenario body, and always erases the store afterwards.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tonimelisma/drivecheck/internal/client"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// ErrDirtyStore is returned when cleanup could not empty the remote store.
// Scenario isolation no longer holds, so the run must stop.
var ErrDirtyStore = errors.New("remote store could not be emptied")

// File is a remote file created before the scenario body runs. Content is
// opaque bytes.
type File struct {
	Path    string
	Content []byte
}

// F builds a File from string content.
func F(path, content string) File {
	return File{Path: path, Content: []byte(content)}
}

// Body is a scenario body. It returns the first failure it hits.
type Body func(ctx context.Context) error

// ScenarioError wraps a failure that escaped a scenario in fail-stop mode.
type ScenarioError struct {
	Scenario string
	Err      error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %q: %v", e.Scenario, e.Err)
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}

// Outcome records how one scenario ended.
type Outcome struct {
	Name string
	Err  error // nil when every check passed
}

// Manager runs scenario bodies between setup and teardown.
type Manager struct {
	client     *client.Client
	out        *transcript.Printer
	logger     *slog.Logger
	ignorePath string
	failStop   bool

	outcomes []Outcome
}

// NewManager creates a Manager. ignorePath is the marker file removed
// before each setup.
func NewManager(c *client.Client, out *transcript.Printer, logger *slog.Logger, ignorePath string, failStop bool) *Manager {
	return &Manager{
		client:     c,
		out:        out,
		logger:     logger,
		ignorePath: ignorePath,
		failStop:   failStop,
	}
}

// Outcomes returns every scenario run so far, in order.
func (m *Manager) Outcomes() []Outcome {
	return m.outcomes
}

// Run sets up files, runs body, and erases the store whatever happened.
// A setup or body failure is printed and absorbed unless fail-stop is on,
// in which case it is returned as a *ScenarioError after cleanup. Cleanup
// failures and context cancellation are always returned.
func (m *Manager) Run(ctx context.Context, name string, files []File, body Body) error {
	err := m.setup(ctx, files)

	m.out.Heading("%s", name)

	if err == nil {
		err = body(ctx)
	}

	// Cleanup must run even after an interrupt.
	cleanupErr := m.cleanup(context.WithoutCancel(ctx))

	m.outcomes = append(m.outcomes, Outcome{Name: name, Err: err})

	if cleanupErr != nil {
		m.logger.Error("cleanup failed", slog.String("scenario", name), slog.String("error", cleanupErr.Error()))
		return fmt.Errorf("cleaning up after %q: %w: %w", name, ErrDirtyStore, cleanupErr)
	}

	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if m.failStop {
		return &ScenarioError{Scenario: name, Err: err}
	}

	m.out.Linef("scenario %q failed: %v", name, err)
	m.logger.Warn("scenario failed", slog.String("scenario", name), slog.String("error", err.Error()))

	return nil
}

func (m *Manager) setup(ctx context.Context, files []File) error {
	if err := os.Remove(m.ignorePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing ignore marker: %w", err)
	}

	for _, f := range files {
		if err := m.client.PushPiped(ctx, f.Path, f.Content); err != nil {
			return fmt.Errorf("pushing fixture %s: %w", f.Path, err)
		}
	}

	return nil
}

// cleanup erases the store and verifies the root lists empty.
func (m *Manager) cleanup(ctx context.Context) error {
	m.out.Heading("clean up")
	defer m.out.Blank()

	if err := m.client.Erase(ctx); err != nil {
		return err
	}

	left, err := m.client.List(ctx, "")
	if err != nil {
		return err
	}

	if len(left) > 0 {
		return fmt.Errorf("%d entries left after erase: %q", len(left), left)
	}

	return nil
}
