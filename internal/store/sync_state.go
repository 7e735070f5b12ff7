package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/jobsync/internal/fingerprint"
)

// LastFingerprint returns the fingerprint recorded at the last successful
// sync of recordID. found is false when the record was never synced.
func (s *Store) LastFingerprint(ctx context.Context, recordID string) (fp fingerprint.Fingerprint, found bool, err error) {
	query, args, err := sq.Select("fingerprint").
		From("sync_state").
		Where(sq.Eq{"record_id": recordID}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("last fingerprint: build: %w", err)
	}

	var value string
	err = s.q.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("last fingerprint %s: %w", recordID, err)
	}
	return fingerprint.Fingerprint(value), true, nil
}

// RecordSynced stores fp as the synced fingerprint of recordID. seq orders
// sync events; it comes from the caller's logical clock.
func (s *Store) RecordSynced(ctx context.Context, recordID string, fp fingerprint.Fingerprint, seq int64) error {
	if fp.IsZero() {
		return fmt.Errorf("record synced %s: empty fingerprint", recordID)
	}
	query, args, err := sq.Insert("sync_state").
		Columns("record_id", "fingerprint", "seq").
		Values(recordID, fp.String(), seq).
		Suffix("ON CONFLICT(record_id) DO UPDATE SET fingerprint = excluded.fingerprint, seq = excluded.seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("record synced: build: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record synced %s: %w", recordID, err)
	}
	return nil
}

// MaxSyncSeq returns the highest recorded sync sequence, or 0 when nothing
// has been synced.
func (s *Store) MaxSyncSeq(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COALESCE(MAX(seq), 0)").From("sync_state").ToSql()
	if err != nil {
		return 0, fmt.Errorf("max sync seq: build: %w", err)
	}
	var seq int64
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max sync seq: %w", err)
	}
	return seq, nil
}
