package cli

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/metrics"
	"github.com/roach88/jobsync/internal/reconcile"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	MetricsTextfile string
	Workers         int
}

// PlanResult is the text/JSON rendering of a plan report.
type PlanResult struct {
	reconcile.Report
	Totals map[reconcile.Status]int `json:"counts"`
}

func (r PlanResult) String() string {
	var b strings.Builder
	for _, d := range r.Decisions {
		switch d.Status {
		case reconcile.StatusUndecided:
			fmt.Fprintf(&b, "? %s  undecided (%s): %v\n", d.RecordID, d.Reason, d.Err)
		case reconcile.StatusNoChange:
			fmt.Fprintf(&b, "= %s  no change\n", d.RecordID)
		default:
			fmt.Fprintf(&b, "↑ %s  %s  %s\n", d.RecordID, d.Status, d.Fingerprint)
		}
	}
	fmt.Fprintf(&b, "%d to push, %d unchanged, %d undecided",
		r.Totals[reconcile.StatusUnsynced]+r.Totals[reconcile.StatusNeedsSync],
		r.Totals[reconcile.StatusNoChange],
		r.Totals[reconcile.StatusUndecided])
	return b.String()
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan [record-id...]",
		Short: "Decide which receipts need to be pushed",
		Long: `Fingerprint receipts and compare each against the fingerprint recorded
at its last push. Without arguments every stored receipt is planned.

A receipt whose fingerprint cannot be computed is undecided; it is never
reported as unchanged and the command exits with code 1.

Example:
  jobsync plan --db ./jobsync.db
  jobsync plan --db ./jobsync.db r-1 r-2 --format json
  jobsync plan --metrics-textfile /var/lib/node_exporter/jobsync.prom`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent fingerprint workers (overrides plan.workers)")

	return cmd
}

func runPlan(opts *PlanOptions, ids []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	if opts.Workers > 0 {
		opts.Config.Plan.Workers = opts.Workers
	}
	textfile := opts.MetricsTextfile
	if textfile == "" {
		textfile = opts.Config.Plan.MetricsTextfile
	}

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	reg := prometheus.NewRegistry()
	planner := opts.newPlanner(cmd, st, reg)

	var report reconcile.Report
	if len(ids) == 0 {
		report, err = planner.PlanAll(ctx)
	} else {
		report, err = planner.PlanMany(ctx, ids)
	}
	if err != nil && len(report.Decisions) == 0 {
		return formatter.Fail(ExitCommandError, err, nil)
	}

	if textfile != "" {
		if werr := metrics.WriteTextfile(textfile, reg); werr != nil {
			return formatter.Fail(ExitCommandError, fmt.Errorf("%w: %w", errMetricsExport, werr), map[string]string{"path": textfile})
		}
		formatter.VerboseLog("Metrics written to %s", textfile)
	}

	result := PlanResult{Report: report, Totals: report.Counts()}
	if err := formatter.Success(result); err != nil {
		return err
	}

	if undecided := result.Totals[reconcile.StatusUndecided]; undecided > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d receipt(s) undecided", undecided))
	}
	return nil
}
