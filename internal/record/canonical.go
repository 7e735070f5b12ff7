package record

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/jobsync/internal/canon"
	"github.com/roach88/jobsync/internal/validate"
)

// Payload is the canonical projection of a receipt and its line items.
// It is derived on demand and never persisted as authoritative state.
type Payload struct {
	Amount           Amount
	Description      string
	VendorID         string
	PaymentAccountID string
	Date             time.Time
	AttachmentID     string
	Notes            string
	LineItems        []Line
}

// Line is a line item reduced to the fields relevant for sync comparison.
type Line struct {
	ClassificationID string
	Description      string
	Amount           Amount
}

// CompareLines is the total order used for line items: classification id,
// then description (both lexicographic), then amount ascending.
func CompareLines(a, b Line) int {
	if c := strings.Compare(a.ClassificationID, b.ClassificationID); c != 0 {
		return c
	}
	if c := strings.Compare(a.Description, b.Description); c != 0 {
		return c
	}
	return cmp.Compare(a.Amount, b.Amount)
}

// Canonicalize normalizes r and items into a Payload. Input order of items
// does not matter. Missing financial data fails with a *validate.ValidationError;
// no defaults are substituted.
func Canonicalize(r Receipt, items []LineItem) (Payload, error) {
	if r.Amount == nil {
		return Payload{}, validate.Missing("amount", r.ID)
	}
	if strings.TrimSpace(r.Description) == "" {
		return Payload{}, validate.Missing("description", r.ID)
	}
	if r.Date.IsZero() {
		return Payload{}, validate.Missing("date", r.ID)
	}

	lines := make([]Line, 0, len(items))
	for i, item := range items {
		if item.Amount == nil {
			return Payload{}, validate.Missing(fmt.Sprintf("line_items[%d].amount", i), r.ID)
		}
		lines = append(lines, Line{
			ClassificationID: norm.NFC.String(item.ClassificationID),
			Description:      norm.NFC.String(item.Description),
			Amount:           *item.Amount,
		})
	}
	slices.SortFunc(lines, CompareLines)

	return Payload{
		Amount:           *r.Amount,
		Description:      r.Description,
		VendorID:         r.VendorID,
		PaymentAccountID: r.PaymentAccountID,
		Date:             r.Date.UTC(),
		AttachmentID:     r.AttachmentID,
		Notes:            r.Notes,
		LineItems:        lines,
	}, nil
}

// CanonicalValue implements canon.Marshaler. Line items are emitted
// positionally as [classification_id, description, amount].
func (p Payload) CanonicalValue() (canon.Value, error) {
	lines := make(canon.Array, len(p.LineItems))
	for i, l := range p.LineItems {
		lines[i] = canon.Array{
			canon.String(l.ClassificationID),
			canon.String(l.Description),
			canon.Int(l.Amount),
		}
	}

	return canon.ObjectOf(
		canon.P("amount", canon.Int(p.Amount)),
		canon.P("attachment_id", canon.String(p.AttachmentID)),
		canon.P("date", canon.String(p.Date.UTC().Format(time.RFC3339Nano))),
		canon.P("description", canon.String(p.Description)),
		canon.P("line_items", lines),
		canon.P("notes", canon.String(p.Notes)),
		canon.P("payment_account_id", canon.String(p.PaymentAccountID)),
		canon.P("vendor_id", canon.String(p.VendorID)),
	), nil
}

// MarshalCanonical returns the byte-stable serialization of p.
func (p Payload) MarshalCanonical() ([]byte, error) {
	return canon.Marshal(p)
}
