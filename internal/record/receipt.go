package record

import "time"

// Receipt is a record subject to synchronization with the external
// accounting system.
type Receipt struct {
	// ID is the local storage identifier. It is not part of the fingerprint.
	ID string `json:"id" yaml:"id"`

	// Amount is required; a nil Amount fails canonicalization.
	Amount *Amount `json:"amount" yaml:"amount"`

	Description      string    `json:"description" yaml:"description"`
	VendorID         string    `json:"vendor_id" yaml:"vendor_id"`
	PaymentAccountID string    `json:"payment_account_id" yaml:"payment_account_id"`
	Date             time.Time `json:"date" yaml:"date"`
	AttachmentID     string    `json:"attachment_id,omitempty" yaml:"attachment_id,omitempty"`
	Notes            string    `json:"notes,omitempty" yaml:"notes,omitempty"`

	// LineItems are owned by the receipt and have no lifecycle of their own.
	LineItems []LineItem `json:"line_items,omitempty" yaml:"line_items,omitempty"`
}

// LineItem is one split of a receipt against a work classification.
type LineItem struct {
	// ID is the local storage identifier. It is not part of the fingerprint.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Amount           *Amount `json:"amount" yaml:"amount"`
	Description      string  `json:"description" yaml:"description"`
	ClassificationID string  `json:"classification_id" yaml:"classification_id"`
}

// Canonicalize is shorthand for Canonicalize(r, r.LineItems).
func (r Receipt) Canonicalize() (Payload, error) {
	return Canonicalize(r, r.LineItems)
}
