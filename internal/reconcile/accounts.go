package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/jobsync/internal/sanitize"
)

// AccountStore holds the chart of accounts and the settings that reference it.
type AccountStore interface {
	AccountIDs(ctx context.Context) (sanitize.AccountSet, error)
	DeleteAccount(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (sanitize.Settings, error)
	ApplyPatch(ctx context.Context, p sanitize.Patch) error
}

// ErrNoAccountStore is returned by repair operations on a Planner built
// without WithAccounts.
var ErrNoAccountStore = errors.New("no account store configured")

// Repair describes one settings sanitization.
type Repair struct {
	RunID   string         `json:"run_id"`
	Before  sanitize.Patch `json:"before"`
	After   sanitize.Patch `json:"after"`
	Changed []string       `json:"changed"`
}

// AccountsChanged re-derives the settings account references against the
// current account set and stores the result when anything changed.
//
// The account set and settings are read at call time; run inside a store
// transaction to keep them a consistent snapshot.
func (p *Planner) AccountsChanged(ctx context.Context) (Repair, error) {
	if p.accounts == nil {
		return Repair{}, ErrNoAccountStore
	}
	runID := uuid.NewString()

	valid, err := p.accounts.AccountIDs(ctx)
	if err != nil {
		return Repair{}, fmt.Errorf("load accounts: %w", err)
	}
	current, err := p.accounts.GetSettings(ctx)
	if err != nil {
		return Repair{}, fmt.Errorf("load settings: %w", err)
	}

	patch := sanitize.Sanitize(current, valid)
	repair := Repair{
		RunID: runID,
		Before: sanitize.Patch{
			ExpenseAccount:        current.ExpenseAccount,
			PaymentAccounts:       current.PaymentAccounts,
			DefaultPaymentAccount: current.DefaultPaymentAccount,
		},
		After:   patch,
		Changed: patch.Changed(current),
	}
	if len(repair.Changed) == 0 {
		return repair, nil
	}

	if err := p.accounts.ApplyPatch(ctx, patch); err != nil {
		return Repair{}, fmt.Errorf("store repaired settings: %w", err)
	}
	for _, field := range repair.Changed {
		p.metrics.ReferenceRepairs.WithLabelValues(field).Inc()
	}
	p.log.Info().
		Str("run_id", runID).
		Strs("fields", repair.Changed).
		Str("default_payment_account", patch.DefaultPaymentAccount).
		Msg("settings account references repaired")

	return repair, nil
}

// DeleteAccount removes an account and then repairs the settings that
// referenced it.
func (p *Planner) DeleteAccount(ctx context.Context, id string) (Repair, error) {
	if p.accounts == nil {
		return Repair{}, ErrNoAccountStore
	}
	if err := p.accounts.DeleteAccount(ctx, id); err != nil {
		return Repair{}, fmt.Errorf("delete account %s: %w", id, err)
	}
	return p.AccountsChanged(ctx)
}
