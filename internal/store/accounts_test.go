package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jobsync/internal/sanitize"
)

func TestAccounts_SaveListDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, Account{ID: "A2", Name: "Card"}))
	require.NoError(t, s.SaveAccount(ctx, Account{ID: "A1", Name: "Checking"}))
	require.NoError(t, s.SaveAccount(ctx, Account{ID: "A1", Name: "Main checking"}))

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Account{{ID: "A1", Name: "Main checking"}, {ID: "A2", Name: "Card"}}, accounts)

	require.NoError(t, s.DeleteAccount(ctx, "A1"))
	ids, err := s.AccountIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, ids.IDs())

	assert.ErrorIs(t, s.DeleteAccount(ctx, "A1"), ErrNotFound)
}

func TestSaveAccount_RequiresID(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.SaveAccount(context.Background(), Account{Name: "nameless"}))
}

func TestSettings_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, sanitize.Settings{}, empty)

	want := sanitize.Settings{
		ExpenseAccount:        "E1",
		PaymentAccounts:       "A1,A2",
		DefaultPaymentAccount: "A2",
		CompanyName:           "Deck Co",
		Currency:              "USD",
		ReceiptPrefix:         "RC-",
	}
	require.NoError(t, s.SaveSettings(ctx, want))
	require.NoError(t, s.SaveSettings(ctx, want))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyPatch_KeepsUnrelatedFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveSettings(ctx, sanitize.Settings{
		ExpenseAccount:        "E1",
		PaymentAccounts:       "A1,A9",
		DefaultPaymentAccount: "A9",
		CompanyName:           "Deck Co",
	}))

	require.NoError(t, s.ApplyPatch(ctx, sanitize.Patch{PaymentAccounts: "A1", DefaultPaymentAccount: "A1"}))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, sanitize.Settings{
		PaymentAccounts:       "A1",
		DefaultPaymentAccount: "A1",
		CompanyName:           "Deck Co",
	}, got)
}
