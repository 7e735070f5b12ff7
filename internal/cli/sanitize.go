package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/loader"
	"github.com/roach88/jobsync/internal/sanitize"
)

// SanitizeResult is the repaired account references of a document's settings.
type SanitizeResult struct {
	Patch   sanitize.Patch `json:"patch"`
	Changed []string       `json:"changed"`
}

func (r SanitizeResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "expense_account:         %s\n", r.Patch.ExpenseAccount)
	fmt.Fprintf(&b, "payment_accounts:        %s\n", r.Patch.PaymentAccounts)
	fmt.Fprintf(&b, "default_payment_account: %s\n", r.Patch.DefaultPaymentAccount)
	if len(r.Changed) == 0 {
		b.WriteString("✓ No references to repair")
	} else {
		fmt.Fprintf(&b, "Repaired: %s", strings.Join(r.Changed, ", "))
	}
	return b.String()
}

// NewSanitizeCommand creates the sanitize command.
func NewSanitizeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize <file>",
		Short: "Repair settings account references in a document",
		Long: `Check the settings of a document against its accounts and print the
repaired account references. The database is not touched.

Example:
  jobsync sanitize settings.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSanitize(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSanitize(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := loader.LoadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err, nil)
	}
	if doc.Settings == nil {
		return formatter.Fail(ExitCommandError, &loader.LoadError{
			Code:    loader.ErrCodeInvalid,
			Message: fmt.Sprintf("%s has no settings", path),
		}, nil)
	}

	patch := sanitize.Sanitize(*doc.Settings, doc.AccountSet())
	changed := patch.Changed(*doc.Settings)
	if changed == nil {
		changed = []string{}
	}
	return formatter.Success(SanitizeResult{Patch: patch, Changed: changed})
}
