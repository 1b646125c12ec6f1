// Package scenario holds the conformance scenarios, one group per client
// subcommand family, in the order the run driver executes them.
package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tonimelisma/drivecheck/internal/check"
	"github.com/tonimelisma/drivecheck/internal/client"
	"github.com/tonimelisma/drivecheck/internal/fixture"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// Scenario is one isolated behavioral check. Files are pushed before Body
// runs and the store is erased afterwards.
type Scenario struct {
	Name  string
	Files []fixture.File
	Body  func(ctx context.Context, env *Env) error
}

// Group is the set of scenarios for one subcommand family.
type Group struct {
	Name      string
	Scenarios []Scenario
}

// Env is what a scenario body works with.
type Env struct {
	Client *client.Client
	Report *check.Report
	Out    *transcript.Printer
}

// VerifyFiles pulls every file and checks its content is unchanged.
func (e *Env) VerifyFiles(ctx context.Context, files ...fixture.File) error {
	for _, f := range files {
		got, err := e.Client.PullPiped(ctx, f.Path)
		if err != nil {
			return err
		}

		if err := e.Report.Equal(f.Content, got); err != nil {
			return err
		}
	}

	return nil
}

// ExpectList checks the direct listing of path.
func (e *Env) ExpectList(ctx context.Context, path string, want ...string) error {
	got, err := e.Client.List(ctx, path)
	if err != nil {
		return err
	}

	return e.Report.Equal(listing(want), got)
}

// ExpectTree checks the recursive listing of the whole store.
func (e *Env) ExpectTree(ctx context.Context, want ...string) error {
	got, err := e.Client.ListRecursive(ctx, "")
	if err != nil {
		return err
	}

	return e.Report.Equal(listing(want), got)
}

// ExpectFailure runs a command that must fail with empty stdout and a
// diagnostic on stderr.
func (e *Env) ExpectFailure(ctx context.Context, subcommand string, args, flags []string, input []byte) error {
	res, err := e.Client.RunFail(ctx, subcommand, args, flags, input)
	if err != nil {
		return err
	}

	if err := e.Report.Equal("", string(res.Stdout)); err != nil {
		return err
	}

	return e.Report.NotEqual("", string(res.Stderr))
}

// listing matches the client's never-nil sorted listings.
func listing(want []string) []string {
	out := slices.Clone(want)
	if out == nil {
		out = []string{}
	}

	slices.Sort(out)

	return out
}

// Groups returns every scenario group in execution order.
func Groups() []Group {
	return []Group{
		{Name: "list", Scenarios: listScenarios()},
		{Name: "rename", Scenarios: renameScenarios()},
		{Name: "move", Scenarios: moveScenarios()},
		{Name: "stat", Scenarios: statScenarios()},
		{Name: "pull", Scenarios: pullScenarios()},
		{Name: "trash", Scenarios: trashScenarios()},
	}
}

// Select keeps the named groups in declared order. No names selects all.
func Select(groups []Group, names []string) ([]Group, error) {
	if len(names) == 0 {
		return groups, nil
	}

	known := make([]string, 0, len(groups))
	for _, g := range groups {
		known = append(known, g.Name)
	}

	for _, n := range names {
		if !slices.Contains(known, n) {
			return nil, fmt.Errorf("unknown scenario group %q (valid: %s)", n, strings.Join(known, ", "))
		}
	}

	var selected []Group

	for _, g := range groups {
		if slices.Contains(names, g.Name) {
			selected = append(selected, g)
		}
	}

	return selected, nil
}

// Basic is the smoke check run before any group: push, pull back and trash
// one file. Most scenarios depend on these commands.
func Basic(ctx context.Context, env *Env) error {
	const (
		name = "foo.txt"
		data = "foobar"
	)

	env.Out.Heading("basic tests")
	defer env.Out.Blank()

	if err := env.Client.PushPiped(ctx, name, []byte(data)); err != nil {
		return err
	}

	got, err := env.Client.PullPiped(ctx, name)
	if err != nil {
		return err
	}

	if err := env.Report.Equal([]byte(data), got); err != nil {
		return err
	}

	_, err = env.Client.Trash(ctx, name)

	return err
}
