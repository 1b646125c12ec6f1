package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Invocation is one call of the client binary.
type Invocation struct {
	Argv  []string // Argv[0] is the binary
	Dir   string   // working directory for the child
	Stdin []byte   // nil: no input stream; non-nil (even empty): written then closed
}

// Result is the observable outcome of one invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Executor runs invocations. A non-zero exit status is a Result, not an
// error; errors mean the process could not be run at all.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (Result, error)
}

// ProcessExecutor runs the client as a child process.
type ProcessExecutor struct{}

// Execute starts the child, feeds Stdin in one shot, and blocks until it
// exits. Cancelling ctx kills the child.
func (ProcessExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	if len(inv.Argv) == 0 {
		return Result{}, errors.New("empty argv")
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir

	if inv.Stdin != nil {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("running %s: %w", inv.Argv[0], ctxErr)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return res, fmt.Errorf("running %s: %w", inv.Argv[0], err)
	}

	return res, nil
}
