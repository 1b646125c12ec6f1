package config

import (
	"fmt"
	"io"
	"strings"
)

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration\n")

	if r.ConfigPath != "" {
		ew.printf("# config file: %s\n", r.ConfigPath)
	}

	ew.printf("\n")
	ew.printf("drive_bin        = %q\n", r.DriveBin)
	ew.printf("test_dir         = %q\n", r.TestDir)
	ew.printf("fail_stop        = %t\n", r.FailStop)
	ew.printf("ignore_marker    = %q\n", r.IgnoreMarker)
	ew.printf("workspace_marker = %q\n", r.WorkspaceMarker)
	ew.printf("groups           = [%s]\n", joinQuoted(r.Groups))
	ew.printf("log_level        = %q\n", r.LogLevel)
	ew.printf("color            = %q\n", r.Color)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// joinQuoted formats a string slice as comma-separated quoted values.
func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}

	return strings.Join(quoted, ", ")
}
