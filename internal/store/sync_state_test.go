package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jobsync/internal/fingerprint"
)

func TestSyncState(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveReceipt(ctx, createTestReceipt("r-1")))

	_, found, err := s.LastFingerprint(ctx, "r-1")
	require.NoError(t, err)
	assert.False(t, found)

	seq, err := s.MaxSyncSeq(ctx)
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, s.RecordSynced(ctx, "r-1", fingerprint.Fingerprint("aaa"), 3))
	require.NoError(t, s.RecordSynced(ctx, "r-1", fingerprint.Fingerprint("bbb"), 4))

	fp, found, err := s.LastFingerprint(ctx, "r-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, fingerprint.Fingerprint("bbb"), fp)

	seq, err = s.MaxSyncSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), seq)
}

func TestRecordSynced_RejectsEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveReceipt(ctx, createTestReceipt("r-1")))

	assert.Error(t, s.RecordSynced(ctx, "r-1", "", 1))
}

func TestRecordSynced_UnknownReceipt(t *testing.T) {
	s := createTestStore(t)

	// foreign key to receipts
	assert.Error(t, s.RecordSynced(context.Background(), "ghost", "aaa", 1))
}
