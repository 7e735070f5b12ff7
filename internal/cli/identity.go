package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/reconcile"
)

// IdentityOptions holds flags for the identity command.
type IdentityOptions struct {
	*RootOptions
	Abbreviation  string
	StoreID       string
	ChangeCounter int64
	EndDate       string
}

// IdentityResult is the derived external identifier.
type IdentityResult struct {
	StoreID       string `json:"store_id"`
	ChangeCounter int64  `json:"change_counter"`
	EndDate       string `json:"end_date"`
	Reference     string `json:"reference"`
}

func (r IdentityResult) String() string {
	return r.Reference
}

// NewIdentityCommand creates the identity command.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IdentityOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Derive the external accounting identifier for a store period",
		Long: `Derive a stable external accounting identifier from a store id, change
counter and period end date. The values are used verbatim and in order.

Example:
  jobsync identity --abbrev ABC --store store-42 --counter 7 --end-date 2024-06-30`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentity(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Abbreviation, "abbrev", "", "organization or project abbreviation (required)")
	cmd.Flags().StringVar(&opts.StoreID, "store", "", "store identifier (required)")
	cmd.Flags().Int64Var(&opts.ChangeCounter, "counter", 0, "store change counter")
	cmd.Flags().StringVar(&opts.EndDate, "end-date", "", "period end date (required)")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("end-date")

	return cmd
}

func runIdentity(opts *IdentityOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	planner := reconcile.New(nil, nil, reconcile.WithLogger(opts.Log))
	ref, err := planner.ExternalReference(cmd.Context(), opts.Abbreviation, opts.StoreID, opts.ChangeCounter, opts.EndDate)
	if err != nil {
		return formatter.Fail(ExitCommandError, err, nil)
	}

	return formatter.Success(IdentityResult{
		StoreID:       opts.StoreID,
		ChangeCounter: opts.ChangeCounter,
		EndDate:       opts.EndDate,
		Reference:     ref,
	})
}
