package scenario

import (
	"context"

	"github.com/tonimelisma/drivecheck/internal/client"
	"github.com/tonimelisma/drivecheck/internal/fixture"
)

func pullScenarios() []Scenario {
	piped := []string{client.FlagPiped}

	return []Scenario{
		{
			Name: "pull -piped not-found file, issue #95",
			Body: func(ctx context.Context, env *Env) error {
				return env.ExpectFailure(ctx, "pull", []string{"not-found"}, piped, nil)
			},
		},
		{
			Name:  "pull -piped folder",
			Files: []fixture.File{fixture.F("a/a.txt", "")},
			Body: func(ctx context.Context, env *Env) error {
				return env.ExpectFailure(ctx, "pull", []string{"a"}, piped, nil)
			},
		},
	}
}
