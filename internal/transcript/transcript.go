// Package transcript prints the streamed record of a conformance run: every
// client invocation, captured output on failures, scenario headings,
// assertion mismatches and the final tally.
package transcript

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
)

// printableInput matches piped input that is safe to echo verbatim.
var printableInput = regexp.MustCompile(`^[\x20-\x7e\n]+$`)

// Printer writes transcript lines to an io.Writer. It is not safe for
// concurrent use; the harness is single-threaded.
type Printer struct {
	w io.Writer

	colorHeading *color.Color
	colorCommand *color.Color
	colorPass    *color.Color
	colorFail    *color.Color
	colorWarning *color.Color
}

// New creates a Printer. mode is "auto", "always" or "never"; "auto"
// colorizes only when w is a terminal.
func New(w io.Writer, mode string) *Printer {
	p := &Printer{
		w:            w,
		colorHeading: color.New(color.FgCyan, color.Bold),
		colorCommand: color.New(color.Faint),
		colorPass:    color.New(color.FgGreen),
		colorFail:    color.New(color.FgRed, color.Bold),
		colorWarning: color.New(color.FgYellow),
	}

	enabled := mode == "always" || (mode == "auto" && isTerminal(w))
	for _, c := range []*color.Color{p.colorHeading, p.colorCommand, p.colorPass, p.colorFail, p.colorWarning} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Discard returns a Printer that drops everything.
func Discard() *Printer {
	return New(io.Discard, "never")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Command echoes an invocation as a shell-quoted command line. Piped input
// is shown as `echo "<input>" |` when printable, `echo ... |` otherwise.
func (p *Printer) Command(argv []string, input []byte) {
	line := shellquote.Join(argv...)

	if input != nil {
		if printableInput.Match(input) {
			line = fmt.Sprintf("echo %q | %s", string(input), line)
		} else {
			line = "echo ... | " + line
		}
	}

	p.colorCommand.Fprintln(p.w, line)
}

// Stream dumps captured output under a "[label]" line. Nothing is printed
// for empty output.
func (p *Printer) Stream(label string, data []byte) {
	if len(data) == 0 {
		return
	}

	fmt.Fprintf(p.w, "[%s]\n", label)
	p.w.Write(data) //nolint:errcheck // transcript output is best-effort

	if data[len(data)-1] != '\n' {
		fmt.Fprintln(p.w)
	}
}

// Heading prints a "# ..." line marking a scenario or phase.
func (p *Printer) Heading(format string, args ...any) {
	p.colorHeading.Fprintf(p.w, "# "+format+"\n", args...)
}

// Linef prints a plain line.
func (p *Printer) Linef(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

// Mismatch prints an expected/actual pair followed by "failed".
func (p *Printer) Mismatch(expected, actual any) {
	fmt.Fprintf(p.w, "[expected] %s\n", Repr(expected))
	fmt.Fprintf(p.w, "[actual] %s\n", Repr(actual))
	p.colorFail.Fprintln(p.w, "failed")
}

// UnexpectedEqual prints the value that should have differed, then "failed".
func (p *Printer) UnexpectedEqual(actual any) {
	fmt.Fprintf(p.w, "[not expected equal] %s\n", Repr(actual))
	p.colorFail.Fprintln(p.w, "failed")
}

// Warningf prints a highlighted warning line.
func (p *Printer) Warningf(format string, args ...any) {
	p.colorWarning.Fprintf(p.w, format+"\n", args...)
}

// Tally prints the final "ok"/"bad" counters.
func (p *Printer) Tally(passed, failed int) {
	p.colorPass.Fprintf(p.w, "ok %d\n", passed)

	if failed > 0 {
		p.colorFail.Fprintf(p.w, "bad %d\n", failed)
		return
	}

	fmt.Fprintf(p.w, "bad %d\n", failed)
}

// Repr renders a value for mismatch output. Strings and byte slices are
// quoted so control characters and trailing whitespace stay visible.
func Repr(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("%q", x)
	case []string:
		return fmt.Sprintf("%q", x)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%#v", x)
	}
}
