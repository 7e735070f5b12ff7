package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/jobsync/internal/record"
)

// SaveReceipt inserts or replaces a receipt together with its line items.
// Line items are rewritten in their given order; position is storage detail
// only and plays no role in fingerprints.
func (s *Store) SaveReceipt(ctx context.Context, r record.Receipt) error {
	if r.ID == "" {
		return fmt.Errorf("save receipt: id is required")
	}

	return s.InTx(ctx, func(tx *Store) error {
		query, args, err := sq.Insert("receipts").
			Columns("id", "amount", "description", "vendor_id", "payment_account_id", "date", "attachment_id", "notes").
			Values(r.ID, nullAmount(r.Amount), r.Description, r.VendorID, r.PaymentAccountID, formatDate(r.Date), r.AttachmentID, r.Notes).
			Suffix(`ON CONFLICT(id) DO UPDATE SET
				amount = excluded.amount,
				description = excluded.description,
				vendor_id = excluded.vendor_id,
				payment_account_id = excluded.payment_account_id,
				date = excluded.date,
				attachment_id = excluded.attachment_id,
				notes = excluded.notes`).
			ToSql()
		if err != nil {
			return fmt.Errorf("save receipt: build: %w", err)
		}
		if _, err := tx.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save receipt %s: %w", r.ID, err)
		}

		query, args, err = sq.Delete("line_items").Where(sq.Eq{"receipt_id": r.ID}).ToSql()
		if err != nil {
			return fmt.Errorf("save receipt: build: %w", err)
		}
		if _, err := tx.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save receipt %s: clear line items: %w", r.ID, err)
		}

		if len(r.LineItems) == 0 {
			return nil
		}

		insert := sq.Insert("line_items").
			Columns("receipt_id", "position", "id", "amount", "description", "classification_id")
		for i, item := range r.LineItems {
			insert = insert.Values(r.ID, i, item.ID, nullAmount(item.Amount), item.Description, item.ClassificationID)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("save receipt: build: %w", err)
		}
		if _, err := tx.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save receipt %s: insert line items: %w", r.ID, err)
		}
		return nil
	})
}

// GetReceipt loads a receipt and its line items. Returns ErrNotFound when the
// receipt does not exist.
func (s *Store) GetReceipt(ctx context.Context, id string) (record.Receipt, error) {
	query, args, err := sq.Select("id", "amount", "description", "vendor_id", "payment_account_id", "date", "attachment_id", "notes").
		From("receipts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return record.Receipt{}, fmt.Errorf("get receipt: build: %w", err)
	}

	var (
		r      record.Receipt
		amount sql.NullInt64
		date   string
	)
	err = s.q.QueryRowContext(ctx, query, args...).Scan(
		&r.ID, &amount, &r.Description, &r.VendorID, &r.PaymentAccountID, &date, &r.AttachmentID, &r.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Receipt{}, fmt.Errorf("receipt %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return record.Receipt{}, fmt.Errorf("get receipt %s: %w", id, err)
	}

	r.Amount = amountFromNull(amount)
	if r.Date, err = parseDate(date); err != nil {
		return record.Receipt{}, fmt.Errorf("get receipt %s: %w", id, err)
	}

	if r.LineItems, err = s.lineItems(ctx, id); err != nil {
		return record.Receipt{}, err
	}
	return r, nil
}

func (s *Store) lineItems(ctx context.Context, receiptID string) ([]record.LineItem, error) {
	query, args, err := sq.Select("id", "amount", "description", "classification_id").
		From("line_items").
		Where(sq.Eq{"receipt_id": receiptID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("line items: build: %w", err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	var items []record.LineItem
	for rows.Next() {
		var (
			item   record.LineItem
			amount sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &amount, &item.Description, &item.ClassificationID); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		item.Amount = amountFromNull(amount)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

// ListReceiptIDs returns every receipt id in binary order.
func (s *Store) ListReceiptIDs(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("id").From("receipts").OrderBy("id COLLATE BINARY ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list receipts: build: %w", err)
	}
	return s.queryStrings(ctx, query, args...)
}

// DeleteReceipt removes a receipt; its line items and sync state cascade.
func (s *Store) DeleteReceipt(ctx context.Context, id string) error {
	query, args, err := sq.Delete("receipts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("delete receipt: build: %w", err)
	}
	return s.execOne(ctx, fmt.Sprintf("receipt %s", id), query, args...)
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

// execOne runs a statement that must affect exactly one row.
func (s *Store) execOne(ctx context.Context, what string, query string, args ...any) error {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func nullAmount(a *record.Amount) sql.NullInt64 {
	if a == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*a), Valid: true}
}

func amountFromNull(n sql.NullInt64) *record.Amount {
	if !n.Valid {
		return nil
	}
	return record.Amount(n.Int64).Ptr()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
