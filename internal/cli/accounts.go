package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/reconcile"
	"github.com/roach88/jobsync/internal/store"
)

// AccountList renders stored accounts.
type AccountList []store.Account

func (l AccountList) String() string {
	if len(l) == 0 {
		return "No accounts"
	}
	lines := make([]string, len(l))
	for i, a := range l {
		lines[i] = fmt.Sprintf("%s\t%s", a.ID, a.Name)
	}
	return strings.Join(lines, "\n")
}

// DeleteAccountResult renders an account deletion and the settings repair it caused.
type DeleteAccountResult struct {
	Deleted string           `json:"deleted"`
	Repair  reconcile.Repair `json:"repair"`
}

func (r DeleteAccountResult) String() string {
	s := fmt.Sprintf("✓ Deleted account %s", r.Deleted)
	if len(r.Repair.Changed) > 0 {
		s += fmt.Sprintf("\nRepaired settings: %s", strings.Join(r.Repair.Changed, ", "))
		s += fmt.Sprintf("\nDefault payment account is now %q", r.Repair.After.DefaultPaymentAccount)
	}
	return s
}

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand(rootOpts))
	cmd.AddCommand(newAccountsDeleteCommand(rootOpts))
	return cmd
}

func newAccountsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List accounts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := opts.openStore(formatter)
			if err != nil {
				return err
			}
			defer opts.closeStore(st)

			accounts, err := st.ListAccounts(cmd.Context())
			if err != nil {
				return formatter.Fail(ExitCommandError, err, nil)
			}
			return formatter.Success(AccountList(accounts))
		},
	}
}

func newAccountsDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account and repair settings that referenced it",
		Long: `Delete an account. Settings references to it are repaired in the same
transaction: the expense account is cleared, the account is dropped from the
payment accounts, and a removed default payment account is replaced by the
first remaining payment account.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			ctx := cmd.Context()
			id := args[0]

			st, err := opts.openStore(formatter)
			if err != nil {
				return err
			}
			defer opts.closeStore(st)

			var repair reconcile.Repair
			err = st.InTx(ctx, func(tx *store.Store) error {
				var err error
				repair, err = opts.newPlanner(cmd, tx, nil).DeleteAccount(ctx, id)
				return err
			})
			if err != nil {
				return formatter.Fail(ExitCommandError, err, map[string]string{"account_id": id})
			}
			return formatter.Success(DeleteAccountResult{Deleted: id, Repair: repair})
		},
	}
}
