package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/harness"
)

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Events int      `json:"events"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioReport collects the outcomes of a scenario run.
type ScenarioReport struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
}

func (r ScenarioReport) String() string {
	var b strings.Builder
	for _, s := range r.Scenarios {
		mark := "✓"
		if !s.Pass {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s (%d events)\n", mark, s.Name, s.Events)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "    %s\n", e)
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed", r.Passed, r.Failed)
	return b.String()
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <file>...",
		Short: "Run sync scenarios against a scratch database",
		Long: `Run scenario files end to end. Each scenario gets its own temporary
database; the configured database is not touched.

Exit codes:
  0  all scenarios passed
  1  at least one scenario failed its expectations
  2  a scenario could not be loaded or executed

Example:
  jobsync scenario testdata/scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runScenarios(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var report ScenarioReport
	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			return formatter.Fail(ExitCommandError, err, map[string]any{"file": path})
		}
		formatter.VerboseLog("running scenario %s", scenario.Name)

		result, err := harness.Run(cmd.Context(), scenario)
		if err != nil {
			return formatter.Fail(ExitCommandError, err, map[string]any{"scenario": scenario.Name})
		}

		report.Scenarios = append(report.Scenarios, ScenarioResult{
			Name:   scenario.Name,
			Pass:   result.Pass,
			Events: len(result.Trace),
			Errors: result.Errors,
		})
		if result.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	if err := formatter.Success(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}
	return nil
}
