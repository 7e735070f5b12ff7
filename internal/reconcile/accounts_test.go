package reconcile

import (
	"context"
	"errors"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jobsync/internal/sanitize"
	"github.com/roach88/jobsync/internal/testutil"
)

func TestDeleteAccount_RepairsDefault(t *testing.T) {
	p, mem, m := newTestPlanner(t)
	ctx := context.Background()
	mem.PutAccounts("A1", "A2", "A9")
	mem.PutSettings(sanitize.Settings{
		ExpenseAccount:        "A1",
		PaymentAccounts:       "A1,A2,A9",
		DefaultPaymentAccount: "A9",
		CompanyName:           "Deck Co",
	})

	repair, err := p.DeleteAccount(ctx, "A9")
	require.NoError(t, err)
	assert.NotEmpty(t, repair.RunID)
	assert.Equal(t, []string{"payment_accounts", "default_payment_account"}, repair.Changed)

	got, err := mem.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, sanitize.Settings{
		ExpenseAccount:        "A1",
		PaymentAccounts:       "A1,A2",
		DefaultPaymentAccount: "A1",
		CompanyName:           "Deck Co",
	}, got)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ReferenceRepairs.WithLabelValues("default_payment_account")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ReferenceRepairs.WithLabelValues("expense_account")))
}

func TestAccountsChanged_NoopWhenHealthy(t *testing.T) {
	p, mem, _ := newTestPlanner(t)
	mem.PutAccounts("A1")
	mem.PutSettings(sanitize.Settings{ExpenseAccount: "A1", PaymentAccounts: "A1", DefaultPaymentAccount: "A1"})
	mem.Fail["ApplyPatch"] = errors.New("must not be called")

	repair, err := p.AccountsChanged(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repair.Changed)
}

func TestAccountsChanged_Idempotent(t *testing.T) {
	p, mem, _ := newTestPlanner(t)
	ctx := context.Background()
	mem.PutAccounts("A2")
	mem.PutSettings(sanitize.Settings{ExpenseAccount: "A1", PaymentAccounts: " A1 , ,A2", DefaultPaymentAccount: "A1"})

	first, err := p.AccountsChanged(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Changed)

	second, err := p.AccountsChanged(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Changed)
	assert.Equal(t, first.After, second.After)
}

func TestDeleteAccount_Errors(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		p, _, _ := newTestPlanner(t)
		_, err := p.DeleteAccount(context.Background(), "nope")
		assert.ErrorIs(t, err, testutil.ErrMemNotFound)
	})

	t.Run("no account store", func(t *testing.T) {
		mem := testutil.NewMemStore()
		p := New(mem, mem)
		_, err := p.DeleteAccount(context.Background(), "A1")
		assert.ErrorIs(t, err, ErrNoAccountStore)
	})
}
