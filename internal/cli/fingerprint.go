package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/loader"
	"github.com/roach88/jobsync/internal/reconcile"
)

// FingerprintEntry is one receipt's fingerprint.
type FingerprintEntry struct {
	RecordID    string                  `json:"record_id"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Code        string                  `json:"code,omitempty"`
}

// FingerprintResult lists fingerprints for a document.
type FingerprintResult struct {
	Receipts []FingerprintEntry `json:"receipts"`
}

func (r FingerprintResult) String() string {
	var b strings.Builder
	for i, e := range r.Receipts {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.Error != "" {
			fmt.Fprintf(&b, "%s  ✗ [%s] %s", e.RecordID, e.Code, e.Error)
			continue
		}
		fmt.Fprintf(&b, "%s  %s", e.RecordID, e.Fingerprint)
	}
	return b.String()
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print receipt fingerprints for a document",
		Long: `Compute the sync fingerprint of every receipt in a YAML, JSON or CUE document.

The database is not touched. A receipt whose fingerprint cannot be computed
is listed with its error and the command exits with code 1.

Example:
  jobsync fingerprint receipts.yaml
  jobsync fingerprint receipts.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFingerprint(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := loader.LoadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err, nil)
	}
	formatter.VerboseLog("Loaded %d receipt(s) from %s", len(doc.Receipts), path)

	planner := reconcile.New(nil, nil, reconcile.WithLogger(opts.Log))
	result := FingerprintResult{Receipts: make([]FingerprintEntry, 0, len(doc.Receipts))}
	failed := 0
	for _, r := range doc.Receipts {
		entry := FingerprintEntry{RecordID: r.ID}
		fp, err := planner.Fingerprint(cmd.Context(), r)
		if err != nil {
			entry.Error = err.Error()
			entry.Code = ErrorCode(err)
			failed++
		} else {
			entry.Fingerprint = fp
		}
		result.Receipts = append(result.Receipts, entry)
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d receipt(s) could not be fingerprinted", failed))
	}
	return nil
}
