package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/jobsync/internal/sanitize"
)

// Account is a row of the chart of accounts.
type Account struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// SaveAccount inserts or renames an account.
func (s *Store) SaveAccount(ctx context.Context, a Account) error {
	if a.ID == "" {
		return fmt.Errorf("save account: id is required")
	}
	query, args, err := sq.Insert("accounts").
		Columns("id", "name").
		Values(a.ID, a.Name).
		Suffix("ON CONFLICT(id) DO UPDATE SET name = excluded.name").
		ToSql()
	if err != nil {
		return fmt.Errorf("save account: build: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save account %s: %w", a.ID, err)
	}
	return nil
}

// DeleteAccount removes an account. Settings that reference it are left
// alone; repairing them is the caller's job.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	query, args, err := sq.Delete("accounts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("delete account: build: %w", err)
	}
	return s.execOne(ctx, fmt.Sprintf("account %s", id), query, args...)
}

// ListAccounts returns all accounts ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	query, args, err := sq.Select("id", "name").
		From("accounts").
		OrderBy("id COLLATE BINARY ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list accounts: build: %w", err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// AccountIDs returns the current valid account set.
func (s *Store) AccountIDs(ctx context.Context) (sanitize.AccountSet, error) {
	query, args, err := sq.Select("id").From("accounts").ToSql()
	if err != nil {
		return nil, fmt.Errorf("account ids: build: %w", err)
	}
	ids, err := s.queryStrings(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("account ids: %w", err)
	}
	return sanitize.NewAccountSet(ids...), nil
}
