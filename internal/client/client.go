// Package client drives the file-synchronization client under test as an
// opaque executable. Every call blocks until the child exits and yields the
// exit code plus both captured output streams.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/tonimelisma/drivecheck/internal/check"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// Flags the harness passes to the client.
const (
	FlagPiped     = "-piped"
	FlagNoPrompt  = "-no-prompt"
	FlagRecursive = "-r"
	FlagMaxDepth  = "-m=-1"
)

// confirmYes answers the client's destructive-action prompt.
var confirmYes = []byte("y")

// Client invokes the binary with the test directory as its working
// directory. The harness process never changes its own working directory.
type Client struct {
	Binary string
	Dir    string

	exec   Executor
	report *check.Report
	out    *transcript.Printer
	logger *slog.Logger
}

// New creates a Client. exec is usually ProcessExecutor{}.
func New(binary, dir string, exec Executor, report *check.Report, out *transcript.Printer, logger *slog.Logger) *Client {
	return &Client{
		Binary: binary,
		Dir:    dir,
		exec:   exec,
		report: report,
		out:    out,
		logger: logger,
	}
}

// Run invokes `binary subcommand flags... args...`. input nil means no
// input stream; otherwise input is written to the child and the stream
// closed before output is read.
func (c *Client) Run(ctx context.Context, subcommand string, args, flags []string, input []byte) (Result, error) {
	argv := make([]string, 0, 2+len(flags)+len(args))
	argv = append(argv, c.Binary, subcommand)
	argv = append(argv, flags...)
	argv = append(argv, args...)

	c.out.Command(argv, input)

	start := time.Now()

	res, err := c.exec.Execute(ctx, Invocation{Argv: argv, Dir: c.Dir, Stdin: input})
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", c.Binary, subcommand, err)
	}

	// Empty output compares equal to empty expected content.
	if res.Stdout == nil {
		res.Stdout = []byte{}
	}

	if res.Stderr == nil {
		res.Stderr = []byte{}
	}

	c.logger.Debug("client exited",
		slog.String("subcommand", subcommand),
		slog.Any("args", args),
		slog.Int("exit_code", res.ExitCode),
		slog.Int("stdout_bytes", len(res.Stdout)),
		slog.Int("stderr_bytes", len(res.Stderr)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

// RunOK is Run plus a check that the exit code is zero. Captured output is
// echoed before the check when it fails.
func (c *Client) RunOK(ctx context.Context, subcommand string, args, flags []string, input []byte) (Result, error) {
	res, err := c.Run(ctx, subcommand, args, flags, input)
	if err != nil {
		return res, err
	}

	if res.ExitCode != 0 {
		c.dumpOutput(res)
	}

	return res, c.report.Equal(0, res.ExitCode)
}

// RunFail is Run plus a check that the exit code is non-zero.
func (c *Client) RunFail(ctx context.Context, subcommand string, args, flags []string, input []byte) (Result, error) {
	res, err := c.Run(ctx, subcommand, args, flags, input)
	if err != nil {
		return res, err
	}

	if res.ExitCode == 0 {
		c.dumpOutput(res)
	}

	return res, c.report.NotEqual(0, res.ExitCode)
}

func (c *Client) dumpOutput(res Result) {
	c.out.Stream("stdout", res.Stdout)
	c.out.Stream("stderr", res.Stderr)
}

// PushPiped uploads content to path through the client's stdin.
func (c *Client) PushPiped(ctx context.Context, path string, content []byte) error {
	if content == nil {
		content = []byte{}
	}

	_, err := c.RunOK(ctx, "push", []string{path}, []string{FlagPiped}, content)

	return err
}

// PullPiped downloads path through the client's stdout.
func (c *Client) PullPiped(ctx context.Context, path string) ([]byte, error) {
	res, err := c.RunOK(ctx, "pull", []string{path}, []string{FlagPiped}, nil)
	if err != nil {
		return nil, err
	}

	return res.Stdout, nil
}

// List returns the direct children of path (or path itself for a file),
// sorted. An empty path lists the root.
func (c *Client) List(ctx context.Context, path string) ([]string, error) {
	return c.list(ctx, path, []string{FlagNoPrompt})
}

// ListRecursive returns every descendant of path, sorted.
func (c *Client) ListRecursive(ctx context.Context, path string) ([]string, error) {
	return c.list(ctx, path, []string{FlagNoPrompt, FlagRecursive, FlagMaxDepth})
}

func (c *Client) list(ctx context.Context, path string, flags []string) ([]string, error) {
	res, err := c.RunOK(ctx, "list", []string{path}, flags, nil)
	if err != nil {
		return nil, err
	}

	return parseListing(res.Stdout), nil
}

// parseListing splits listing output into NFC-normalized lines, sorted.
// Blank lines are dropped; the result is never nil.
func parseListing(out []byte) []string {
	entries := []string{}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		entries = append(entries, norm.NFC.String(line))
	}

	slices.Sort(entries)

	return entries
}

// Trash moves paths to the trash in one invocation, confirming the prompt.
func (c *Client) Trash(ctx context.Context, paths ...string) (Result, error) {
	return c.RunOK(ctx, "trash", paths, nil, confirmYes)
}

// EmptyTrash permanently purges the trash.
func (c *Client) EmptyTrash(ctx context.Context) error {
	_, err := c.RunOK(ctx, "emptytrash", nil, []string{FlagNoPrompt}, nil)

	return err
}

// Stat runs `stat path` and parses its key/value output.
func (c *Client) Stat(ctx context.Context, path string) (Result, StatInfo, error) {
	res, err := c.RunOK(ctx, "stat", []string{path}, nil, nil)
	if err != nil {
		return res, StatInfo{}, err
	}

	return res, ParseStat(res.Stdout), nil
}

// Erase trashes every top-level entry and purges the trash, leaving the
// store empty. Listing entries are absolute; the client takes them
// relative, so the leading slash is stripped.
func (c *Client) Erase(ctx context.Context) error {
	entries, err := c.List(ctx, "")
	if err != nil {
		return err
	}

	toTrash := make([]string, 0, len(entries))

	for _, entry := range entries {
		rel := strings.TrimPrefix(entry, "/")
		if rel == entry || rel == "" {
			return fmt.Errorf("unexpected root listing entry %q", entry)
		}

		toTrash = append(toTrash, rel)
	}

	if len(toTrash) == 0 {
		return nil
	}

	if _, err := c.Trash(ctx, toTrash...); err != nil {
		return err
	}

	return c.EmptyTrash(ctx)
}
