package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/jobsync/internal/record"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReceipt creates a receipt with two line items.
func createTestReceipt(id string) record.Receipt {
	return record.Receipt{
		ID:               id,
		Amount:           record.MustParseAmount("12.34").Ptr(),
		Description:      "Lumber for deck",
		VendorID:         "V-100",
		PaymentAccountID: "A1",
		Date:             time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		AttachmentID:     "att-9",
		Notes:            "Paid at counter",
		LineItems: []record.LineItem{
			{ID: "li-2", Amount: record.MustParseAmount("2.34").Ptr(), Description: "Screws", ClassificationID: "WC-2"},
			{ID: "li-1", Amount: record.MustParseAmount("10.00").Ptr(), Description: "Boards", ClassificationID: "WC-1"},
		},
	}
}
