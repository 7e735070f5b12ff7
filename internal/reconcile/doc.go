// Package reconcile decides which receipts must be pushed to the external
// accounting system and keeps settings account references healthy.
//
// A receipt moves through
//
//	Unsynced -> {NoChange, NeedsSync} -> Synced(fingerprint)
//
// Planning recomputes the receipt's fingerprint and compares it to the one
// recorded at the last push. A fingerprint that cannot be computed (missing
// required fields, digest failure, cancellation, store error) leaves the
// decision Undecided; it is never reported as NoChange.
//
// Account deletion and any other change to the account set re-run the
// reference sanitizer over the stored settings.
package reconcile
