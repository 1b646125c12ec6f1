package scenario

import (
	"context"

	"github.com/tonimelisma/drivecheck/internal/fixture"
)

func move(ctx context.Context, env *Env, args ...string) error {
	_, err := env.Client.RunOK(ctx, "move", args, nil, nil)
	return err
}

func moveScenarios() []Scenario {
	twoFiles := []fixture.File{fixture.F("a.txt", "a"), fixture.F("b.txt", "b")}

	return []Scenario{
		{
			Name:  "move folder to another",
			Files: []fixture.File{fixture.F("a/a.txt", "a"), fixture.F("b/b.txt", "b")},
			Body: func(ctx context.Context, env *Env) error {
				if err := move(ctx, env, "a", "b"); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/b", "/b/a", "/b/a/a.txt", "/b/b.txt")
			},
		},
		{
			Name:  "move multiple files",
			Files: []fixture.File{fixture.F("a/a.txt", "a"), fixture.F("b/b.txt", "b"), fixture.F("c/c.txt", "c")},
			Body: func(ctx context.Context, env *Env) error {
				if err := move(ctx, env, "a/a.txt", "b/b.txt", "c"); err != nil {
					return err
				}

				if err := env.ExpectTree(ctx, "/a", "/b", "/c", "/c/a.txt", "/c/b.txt", "/c/c.txt"); err != nil {
					return err
				}

				if err := move(ctx, env, "c/a.txt", "c/b.txt", "c/c.txt", ""); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/a", "/a.txt", "/b", "/b.txt", "/c", "/c.txt")
			},
		},
		{
			Name:  "move file to file",
			Files: twoFiles,
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunFail(ctx, "move", []string{"a.txt", "b.txt"}, nil, nil); err != nil {
					return err
				}

				if err := env.ExpectTree(ctx, "/a.txt", "/b.txt"); err != nil {
					return err
				}

				return env.VerifyFiles(ctx, twoFiles...)
			},
		},
		{
			Name:  "move file to the same folder",
			Files: []fixture.File{fixture.F("a/b.txt", "b")},
			Body: func(ctx context.Context, env *Env) error {
				if err := move(ctx, env, "a/b.txt", "a"); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/a", "/a/b.txt")
			},
		},
		{
			Name:  "move folder to its parent",
			Files: []fixture.File{fixture.F("a/b/c.txt", "c")},
			Body: func(ctx context.Context, env *Env) error {
				if err := move(ctx, env, "a/b", "a"); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/a", "/a/b", "/a/b/c.txt")
			},
		},
		{
			Name:  "move folder to its child",
			Files: []fixture.File{fixture.F("a/b/c.txt", "c")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunFail(ctx, "move", []string{"a", "a/b"}, nil, nil); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/a", "/a/b", "/a/b/c.txt")
			},
		},
		{
			// One conflict does not fail the whole move; it is reported on
			// stderr and the conflicting file stays put.
			Name:  "move multiple files and duplicated",
			Files: []fixture.File{fixture.F("a/foo.txt", "a"), fixture.F("b/foo.txt", "b"), fixture.F("c/c.txt", "c")},
			Body: func(ctx context.Context, env *Env) error {
				res, err := env.Client.RunOK(ctx, "move", []string{"a/foo.txt", "b/foo.txt", "c"}, nil, nil)
				if err != nil {
					return err
				}

				if err := env.Report.NotEqual("", string(res.Stderr)); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/a", "/b", "/b/foo.txt", "/c", "/c/c.txt", "/c/foo.txt")
			},
		},
	}
}
