package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/record"
)

func TestDeckReceiptFingerprint(t *testing.T) {
	payload, err := DeckReceipt("r-1").Canonicalize()
	require.NoError(t, err)

	fp, err := fingerprint.New().Fingerprint(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, fingerprint.Fingerprint(DeckReceiptFingerprint), fp)
}

func TestMemStore_Receipts(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()
	m.PutReceipt(record.Receipt{ID: "b"})
	m.PutReceipt(record.Receipt{ID: "a"})

	ids, err := m.ListReceiptIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = m.GetReceipt(ctx, "zzz")
	assert.ErrorIs(t, err, ErrMemNotFound)
}

func TestMemStore_Ledger(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	require.NoError(t, m.RecordSynced(ctx, "a", "f1", 4))
	require.NoError(t, m.RecordSynced(ctx, "b", "f2", 9))

	fp, found, err := m.LastFingerprint(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, fingerprint.Fingerprint("f1"), fp)

	max, err := m.MaxSyncSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), max)
}
