package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/jobsync/internal/sanitize"
)

const settingsRowID = 1

// GetSettings loads the settings record. A fresh database has no settings;
// that case returns the zero value and no error.
func (s *Store) GetSettings(ctx context.Context) (sanitize.Settings, error) {
	query, args, err := sq.Select(
		"expense_account", "payment_accounts", "default_payment_account",
		"company_name", "currency", "receipt_prefix",
	).From("settings").Where(sq.Eq{"id": settingsRowID}).ToSql()
	if err != nil {
		return sanitize.Settings{}, fmt.Errorf("get settings: build: %w", err)
	}

	var st sanitize.Settings
	err = s.q.QueryRowContext(ctx, query, args...).Scan(
		&st.ExpenseAccount, &st.PaymentAccounts, &st.DefaultPaymentAccount,
		&st.CompanyName, &st.Currency, &st.ReceiptPrefix,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return sanitize.Settings{}, nil
	}
	if err != nil {
		return sanitize.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

// SaveSettings writes the settings record, replacing any previous one.
func (s *Store) SaveSettings(ctx context.Context, st sanitize.Settings) error {
	query, args, err := sq.Insert("settings").
		Columns(
			"id", "expense_account", "payment_accounts", "default_payment_account",
			"company_name", "currency", "receipt_prefix",
		).
		Values(
			settingsRowID, st.ExpenseAccount, st.PaymentAccounts, st.DefaultPaymentAccount,
			st.CompanyName, st.Currency, st.ReceiptPrefix,
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			expense_account = excluded.expense_account,
			payment_accounts = excluded.payment_accounts,
			default_payment_account = excluded.default_payment_account,
			company_name = excluded.company_name,
			currency = excluded.currency,
			receipt_prefix = excluded.receipt_prefix`).
		ToSql()
	if err != nil {
		return fmt.Errorf("save settings: build: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// ApplyPatch overlays an account reference patch on the stored settings.
// Unrelated settings fields are left as stored.
func (s *Store) ApplyPatch(ctx context.Context, p sanitize.Patch) error {
	return s.InTx(ctx, func(tx *Store) error {
		st, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		return tx.SaveSettings(ctx, p.Apply(st))
	})
}
