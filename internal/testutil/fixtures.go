package testutil

import (
	"time"

	"github.com/roach88/jobsync/internal/record"
)

// DeckReceipt returns a fully populated receipt with two line items stored
// out of canonical order.
func DeckReceipt(id string) record.Receipt {
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

// DeckReceiptFingerprint is the fingerprint of DeckReceipt.
const DeckReceiptFingerprint = "e93d79a768cf664b9e81a23eaafaa2d27519f20e06991501253c95b1679b42dc"
