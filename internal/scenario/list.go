package scenario

import (
	"context"

	"github.com/tonimelisma/drivecheck/internal/fixture"
)

func listScenarios() []Scenario {
	return []Scenario{
		{
			Name: "list empty drive",
			Body: func(ctx context.Context, env *Env) error {
				return env.ExpectList(ctx, "")
			},
		},
		{
			Name:  "list folder",
			Files: []fixture.File{fixture.F("a/b/c.txt", "foobar")},
			Body: func(ctx context.Context, env *Env) error {
				if err := env.ExpectList(ctx, "", "/a"); err != nil {
					return err
				}

				if err := env.ExpectList(ctx, "a", "/a/b"); err != nil {
					return err
				}

				return env.ExpectList(ctx, "a/b", "/a/b/c.txt")
			},
		},
		{
			// A file path lists as itself, not as an empty folder.
			Name:  "list file, issue #97",
			Files: []fixture.File{fixture.F("a/b/c.txt", "foobar")},
			Body: func(ctx context.Context, env *Env) error {
				return env.ExpectList(ctx, "a/b/c.txt", "/a/b/c.txt")
			},
		},
		{
			Name: "list not-found, issue #95",
			Body: func(ctx context.Context, env *Env) error {
				return env.ExpectFailure(ctx, "list", []string{"not-found"}, nil, nil)
			},
		},
	}
}
