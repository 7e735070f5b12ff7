package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/record"
	"github.com/roach88/jobsync/internal/sanitize"
)

// ErrMemNotFound is returned by MemStore lookups that miss.
var ErrMemNotFound = fmt.Errorf("memstore: not found")

type syncEntry struct {
	fp  fingerprint.Fingerprint
	seq int64
}

// MemStore is an in-memory receipt, ledger and account store.
// Safe for concurrent use.
type MemStore struct {
	mu       sync.Mutex
	receipts map[string]record.Receipt
	synced   map[string]syncEntry
	accounts sanitize.AccountSet
	settings sanitize.Settings

	// Fail, when set, is returned by every method whose name is a key.
	Fail map[string]error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		receipts: make(map[string]record.Receipt),
		synced:   make(map[string]syncEntry),
		accounts: sanitize.NewAccountSet(),
		Fail:     make(map[string]error),
	}
}

func (m *MemStore) fail(method string) error {
	return m.Fail[method]
}

// PutReceipt stores r under r.ID.
func (m *MemStore) PutReceipt(r record.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[r.ID] = r
}

// PutAccounts adds ids to the account set.
func (m *MemStore) PutAccounts(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.accounts[id] = struct{}{}
	}
}

// PutSettings replaces the settings.
func (m *MemStore) PutSettings(s sanitize.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
}

// SyncSeq returns the seq recorded for recordID, or 0.
func (m *MemStore) SyncSeq(recordID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synced[recordID].seq
}

func (m *MemStore) GetReceipt(_ context.Context, id string) (record.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetReceipt"); err != nil {
		return record.Receipt{}, err
	}
	r, ok := m.receipts[id]
	if !ok {
		return record.Receipt{}, fmt.Errorf("receipt %s: %w", id, ErrMemNotFound)
	}
	return r, nil
}

func (m *MemStore) ListReceiptIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListReceiptIDs"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(m.receipts))
	for id := range m.receipts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *MemStore) LastFingerprint(_ context.Context, recordID string) (fingerprint.Fingerprint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("LastFingerprint"); err != nil {
		return "", false, err
	}
	e, ok := m.synced[recordID]
	return e.fp, ok, nil
}

func (m *MemStore) RecordSynced(_ context.Context, recordID string, fp fingerprint.Fingerprint, seq int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RecordSynced"); err != nil {
		return err
	}
	m.synced[recordID] = syncEntry{fp: fp, seq: seq}
	return nil
}

func (m *MemStore) MaxSyncSeq(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("MaxSyncSeq"); err != nil {
		return 0, err
	}
	var max int64
	for _, e := range m.synced {
		if e.seq > max {
			max = e.seq
		}
	}
	return max, nil
}

func (m *MemStore) AccountIDs(_ context.Context) (sanitize.AccountSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AccountIDs"); err != nil {
		return nil, err
	}
	return sanitize.NewAccountSet(m.accounts.IDs()...), nil
}

func (m *MemStore) DeleteAccount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteAccount"); err != nil {
		return err
	}
	if !m.accounts.Contains(id) {
		return fmt.Errorf("account %s: %w", id, ErrMemNotFound)
	}
	delete(m.accounts, id)
	return nil
}

func (m *MemStore) GetSettings(_ context.Context) (sanitize.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetSettings"); err != nil {
		return sanitize.Settings{}, err
	}
	return m.settings, nil
}

func (m *MemStore) ApplyPatch(_ context.Context, p sanitize.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ApplyPatch"); err != nil {
		return err
	}
	m.settings = p.Apply(m.settings)
	return nil
}
