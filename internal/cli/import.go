package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/loader"
	"github.com/roach88/jobsync/internal/reconcile"
	"github.com/roach88/jobsync/internal/store"
)

// ImportResult summarizes an import.
type ImportResult struct {
	Receipts int              `json:"receipts"`
	Accounts int              `json:"accounts"`
	Settings bool             `json:"settings"`
	Repair   reconcile.Repair `json:"repair"`
}

func (r ImportResult) String() string {
	s := fmt.Sprintf("✓ Imported %d receipt(s), %d account(s)", r.Receipts, r.Accounts)
	if r.Settings {
		s += ", settings"
	}
	if len(r.Repair.Changed) > 0 {
		s += fmt.Sprintf("\nRepaired settings: %v", r.Repair.Changed)
	}
	return s
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load receipts, accounts and settings into the database",
		Long: `Import a YAML, JSON or CUE document into the local database.

Receipts and accounts are upserted by id; settings, when present, replace the
stored settings. Settings account references are repaired against the
resulting account set. Everything happens in one transaction.

Example:
  jobsync import --db ./jobsync.db receipts.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	doc, err := loader.LoadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err, nil)
	}

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	result := ImportResult{
		Receipts: len(doc.Receipts),
		Accounts: len(doc.Accounts),
		Settings: doc.Settings != nil,
	}
	err = st.InTx(ctx, func(tx *store.Store) error {
		for _, a := range doc.Accounts {
			if err := tx.SaveAccount(ctx, a); err != nil {
				return err
			}
		}
		if doc.Settings != nil {
			if err := tx.SaveSettings(ctx, *doc.Settings); err != nil {
				return err
			}
		}
		for _, r := range doc.Receipts {
			if err := tx.SaveReceipt(ctx, r); err != nil {
				return err
			}
		}

		repair, err := opts.newPlanner(cmd, tx, nil).AccountsChanged(ctx)
		if err != nil {
			return err
		}
		result.Repair = repair
		return nil
	})
	if err != nil {
		return formatter.Fail(ExitCommandError, err, nil)
	}

	opts.Log.Info().
		Str("file", path).
		Int("receipts", result.Receipts).
		Int("accounts", result.Accounts).
		Msg("document imported")
	return formatter.Success(result)
}
