package fakedrive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tonimelisma/drivecheck/internal/client"
)

// EnvQuirks names the environment variable cmd/fakedrive reads quirks from,
// as a comma-separated list (e.g. "rename-clobbers,list-file-empty").
const EnvQuirks = "FAKEDRIVE_QUIRKS"

// Executor runs invocations in-process against the fake store. It
// satisfies client.Executor.
type Executor struct {
	Quirks Quirks
}

// Execute ignores Argv[0] (the binary) and dispatches the rest.
func (x Executor) Execute(ctx context.Context, inv client.Invocation) (client.Result, error) {
	if err := ctx.Err(); err != nil {
		return client.Result{}, err
	}

	if len(inv.Argv) == 0 {
		return client.Result{}, fmt.Errorf("empty argv")
	}

	var stdin io.Reader = bytes.NewReader(nil)
	if inv.Stdin != nil {
		stdin = bytes.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer

	code := Main(inv.Argv[1:], inv.Dir, stdin, &stdout, &stderr, x.Quirks)

	return client.Result{ExitCode: code, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

// ParseQuirks parses a comma-separated quirk list.
func ParseQuirks(s string) (Quirks, error) {
	var q Quirks

	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "rename-clobbers":
			q.RenameClobbers = true
		case "list-file-empty":
			q.ListFileEmpty = true
		case "trash-ignores-missing":
			q.TrashIgnoresMissing = true
		case "stat-wrong-checksum":
			q.StatWrongChecksum = true
		default:
			return Quirks{}, fmt.Errorf("unknown quirk %q", name)
		}
	}

	return q, nil
}
