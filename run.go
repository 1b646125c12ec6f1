package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/drivecheck/internal/harness"
	"github.com/tonimelisma/drivecheck/internal/scenario"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// errChecksFailed is returned when the run completed but some check failed.
// main exits 1 without printing it; the transcript already has the details.
var errChecksFailed = errors.New("some checks failed")

// errAborted is returned when the operator declines the destructive run.
var errAborted = errors.New("aborted by user")

// Run flags, shared by the root command and `run`.
var (
	flagBin      string
	flagTestDir  string
	flagFailStop bool
	flagGroups   []string
	flagYes      bool
	flagNoColor  bool
)

// confirmFunc asks before erasing the drive. Replaced in tests.
var confirmFunc = confirmDestructive

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conformance scenarios",
		Long: `Run checks the preconditions (client binary present, test directory
initialized, remote store empty), runs a basic smoke check, then every
selected scenario group in order, and prints the final ok/bad tally.`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	addRunFlags(cmd)

	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBin, "bin", "", "path or name of the drive client executable")
	cmd.Flags().StringVar(&flagTestDir, "test-dir", "", "initialized working copy to run in")
	cmd.Flags().BoolVar(&flagFailStop, "fail-stop", false, "stop at the first failed scenario")
	cmd.Flags().StringArrayVar(&flagGroups, "group", nil, "scenario group to run (repeatable; default all)")
	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask before erasing the drive")
	cmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored transcript")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg := resolvedCfg
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	groups, err := scenario.Select(scenario.Groups(), cfg.Groups)
	if err != nil {
		return err
	}

	if !flagYes && isInteractive() {
		ok, err := confirmFunc(cfg.TestDir)
		if err != nil {
			return fmt.Errorf("confirming run: %w", err)
		}

		if !ok {
			return errAborted
		}
	}

	logger := buildLogger()
	ctx := shutdownContext(cmd.Context(), logger)

	// With --json the summary owns stdout and the transcript moves to stderr.
	var transcriptOut io.Writer = os.Stdout
	if flagJSON {
		transcriptOut = os.Stderr
	}

	statusf(flagQuiet, "Testing %s in %s\n", cfg.DriveBin, cfg.TestDir)

	summary, err := harness.Run(ctx, harness.Options{
		Binary:          cfg.DriveBin,
		TestDir:         cfg.TestDir,
		WorkspaceMarker: cfg.WorkspaceMarker,
		IgnoreMarker:    cfg.IgnoreMarker,
		FailStop:        cfg.FailStop,
		Groups:          groups,
		Out:             transcript.New(transcriptOut, cfg.Color),
		Logger:          logger,
	})
	if summary == nil {
		return err
	}

	if flagJSON {
		if encErr := printJSON(os.Stdout, summary); encErr != nil {
			return encErr
		}
	}

	if err != nil {
		return fmt.Errorf("run stopped: %w", err)
	}

	if !summary.OK() {
		return errChecksFailed
	}

	return nil
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirmDestructive asks the operator before a run that erases the drive.
func confirmDestructive(testDir string) (bool, error) {
	var ok bool

	p := &survey.Confirm{
		Message: fmt.Sprintf("drivecheck erases the remote store behind %s between scenarios. Continue?", testDir),
		Default: false,
	}

	err := survey.AskOne(p, &ok)

	return ok, err
}
