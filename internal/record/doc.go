// Package record defines the syncable financial records captured on a job
// (receipts and their line items) and the Canonicalizer that projects them
// into an order-independent payload for fingerprinting.
//
// Money is always int64 minor units. Line items are reduced to
// (amount, description, classification) and sorted by a strict total order
// before serialization, so the payload never depends on insertion order.
package record
