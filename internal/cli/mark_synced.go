package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/reconcile"
)

// MarkSyncedResult renders a mark-synced decision.
type MarkSyncedResult struct {
	reconcile.Decision
}

func (r MarkSyncedResult) String() string {
	if r.Status == reconcile.StatusNoChange {
		return fmt.Sprintf("= %s already synced at %s", r.RecordID, r.Fingerprint)
	}
	return fmt.Sprintf("✓ %s synced at %s", r.RecordID, r.Fingerprint)
}

// NewMarkSyncedCommand creates the mark-synced command.
func NewMarkSyncedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark-synced <record-id>",
		Short: "Record a successful push of a receipt",
		Long: `Record that a receipt was pushed to the external accounting system.

The receipt's current fingerprint is recomputed and stored. A receipt whose
fingerprint cannot be computed is never marked synced.

Example:
  jobsync mark-synced --db ./jobsync.db r-1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkSynced(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runMarkSynced(opts *RootOptions, recordID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	d, err := opts.newPlanner(cmd, st, nil).MarkCurrentSynced(cmd.Context(), recordID)
	if err != nil {
		return formatter.Fail(ExitFailure, err, map[string]string{"record_id": recordID, "reason": d.Reason})
	}
	return formatter.Success(MarkSyncedResult{Decision: d})
}
