package scenario

import (
	"context"

	"github.com/tonimelisma/drivecheck/internal/fixture"
)

func renameScenarios() []Scenario {
	conflicting := []fixture.File{fixture.F("a.txt", "a"), fixture.F("b.txt", "b")}

	return []Scenario{
		{
			Name:  "rename file in root",
			Files: []fixture.File{fixture.F("a.txt", "a")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunOK(ctx, "rename", []string{"a.txt", "abc.txt"}, nil, nil); err != nil {
					return err
				}

				return env.ExpectList(ctx, "", "/abc.txt")
			},
		},
		{
			Name:  "rename file in folder",
			Files: []fixture.File{fixture.F("b/b.txt", "b")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunOK(ctx, "rename", []string{"b/b.txt", "c.txt"}, nil, nil); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/b", "/b/c.txt")
			},
		},
		{
			Name:  "rename file to self in root",
			Files: []fixture.File{fixture.F("b.txt", "b")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunOK(ctx, "rename", []string{"b.txt", "b.txt"}, nil, nil); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/b.txt")
			},
		},
		{
			Name:  "rename file to self in folder",
			Files: []fixture.File{fixture.F("b/b.txt", "b")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunOK(ctx, "rename", []string{"b/b.txt", "b.txt"}, nil, nil); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/b", "/b/b.txt")
			},
		},
		{
			Name:  "rename to existing file",
			Files: conflicting,
			Body: func(ctx context.Context, env *Env) error {
				res, err := env.Client.RunFail(ctx, "rename", []string{"a.txt", "b.txt"}, nil, nil)
				if err != nil {
					return err
				}

				if err := env.Report.Contains(string(res.Stderr), "already exists"); err != nil {
					return err
				}

				if err := env.ExpectTree(ctx, "/a.txt", "/b.txt"); err != nil {
					return err
				}

				return env.VerifyFiles(ctx, conflicting...)
			},
		},
		{
			// The new name is a literal name, not a path: the renamed file
			// sits next to folder b under the name "b/c.txt".
			Name:  "rename special path handling",
			Files: []fixture.File{fixture.F("a/b/c.txt", "c"), fixture.F("a/a.txt", "a")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.RunOK(ctx, "rename", []string{"a/a.txt", "b/c.txt"}, nil, nil); err != nil {
					return err
				}

				return env.ExpectTree(ctx, "/a", "/a/b", "/a/b/c.txt", "/a/b/c.txt")
			},
		},
	}
}
