package scenario

import (
	"context"

	"github.com/tonimelisma/drivecheck/internal/fixture"
)

func trashScenarios() []Scenario {
	return []Scenario{
		{
			Name:  "trash file",
			Files: []fixture.File{fixture.F("a.txt", "a")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.Trash(ctx, "a.txt"); err != nil {
					return err
				}

				return env.ExpectList(ctx, "")
			},
		},
		{
			Name:  "trash folder",
			Files: []fixture.File{fixture.F("a/b.txt", "b")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.Trash(ctx, "a/b.txt"); err != nil {
					return err
				}

				if err := env.ExpectTree(ctx, "/a"); err != nil {
					return err
				}

				if _, err := env.Client.Trash(ctx, "a"); err != nil {
					return err
				}

				return env.ExpectList(ctx, "")
			},
		},
		{
			Name:  "trash multiple files",
			Files: []fixture.File{fixture.F("a.txt", ""), fixture.F("b.txt", ""), fixture.F("c.txt", "")},
			Body: func(ctx context.Context, env *Env) error {
				if _, err := env.Client.Trash(ctx, "a.txt", "b.txt", "c.txt"); err != nil {
					return err
				}

				return env.ExpectList(ctx, "")
			},
		},
		{
			Name: "trash non-existing file",
			Body: func(ctx context.Context, env *Env) error {
				res, err := env.Client.RunFail(ctx, "trash", []string{"not-found"}, nil, []byte("y"))
				if err != nil {
					return err
				}

				return env.Report.NotEqual("", string(res.Stderr))
			},
		},
	}
}
