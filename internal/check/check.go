// Package check implements the harness's assertion primitives. A Report
// owns the pass/fail tally; every check returns nil on success or a
// *Failure that the caller propagates to the enclosing fixture boundary.
package check

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// Tally counts passed and failed checks. Both counters only grow.
type Tally struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Total returns the number of checks evaluated.
func (t Tally) Total() int {
	return t.Passed + t.Failed
}

// Failure is returned by a check that did not hold. It is the only error
// type the fixture boundary treats as a scenario failure rather than an
// infrastructure problem.
type Failure struct {
	Expected any
	Actual   any
	Negated  bool // true for NotEqual: Actual must not equal Expected
}

func (f *Failure) Error() string {
	if f.Negated {
		return fmt.Sprintf("check failed: got %s, want anything else", transcript.Repr(f.Actual))
	}

	return fmt.Sprintf("check failed: expected %s, got %s",
		transcript.Repr(f.Expected), transcript.Repr(f.Actual))
}

// IsFailure reports whether err is, or wraps, a check failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// Report evaluates checks, prints mismatches to the transcript and keeps
// the tally.
type Report struct {
	out   *transcript.Printer
	tally Tally
}

// NewReport creates a Report printing mismatches to out.
func NewReport(out *transcript.Printer) *Report {
	return &Report{out: out}
}

// Tally returns a snapshot of the counters.
func (r *Report) Tally() Tally {
	return r.tally
}

// Equal passes when expected and actual are deeply equal. Byte slices and
// string slices compare by content.
func (r *Report) Equal(expected, actual any) error {
	if assert.ObjectsAreEqual(expected, actual) {
		r.tally.Passed++
		return nil
	}

	r.out.Mismatch(expected, actual)
	r.tally.Failed++

	return &Failure{Expected: expected, Actual: actual}
}

// NotEqual passes when notExpected and actual differ.
func (r *Report) NotEqual(notExpected, actual any) error {
	if !assert.ObjectsAreEqual(notExpected, actual) {
		r.tally.Passed++
		return nil
	}

	r.out.UnexpectedEqual(actual)
	r.tally.Failed++

	return &Failure{Expected: notExpected, Actual: actual, Negated: true}
}

// True passes when v is true.
func (r *Report) True(v bool) error {
	return r.Equal(true, v)
}

// Contains passes when s contains substr.
func (r *Report) Contains(s, substr string) error {
	return r.True(strings.Contains(s, substr))
}

// Matches passes when the regular expression pattern matches s. The
// pattern must be valid; an invalid pattern is a programming error.
func (r *Report) Matches(pattern, s string) error {
	return r.True(regexp.MustCompile(pattern).MatchString(s))
}
