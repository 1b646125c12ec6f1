package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/drivecheck/internal/scenario"
)

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List scenario groups and their scenarios in run order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printGroups(scenario.Groups())
		},
	}
}

type groupJSON struct {
	Name      string   `json:"name"`
	Scenarios []string `json:"scenarios"`
}

func printGroups(groups []scenario.Group) error {
	if flagJSON {
		out := make([]groupJSON, 0, len(groups))

		for _, g := range groups {
			names := make([]string, 0, len(g.Scenarios))
			for _, s := range g.Scenarios {
				names = append(names, s.Name)
			}

			out = append(out, groupJSON{Name: g.Name, Scenarios: names})
		}

		return printJSON(os.Stdout, out)
	}

	var rows [][]string

	for _, g := range groups {
		for _, s := range g.Scenarios {
			rows = append(rows, []string{g.Name, s.Name, fmtFiles(len(s.Files))})
		}
	}

	printTable(os.Stdout, []string{"GROUP", "SCENARIO", "FIXTURES"}, rows)

	return nil
}
