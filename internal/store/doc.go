// Package store provides SQLite-backed local storage for receipts, line
// items, accounts, settings and the last-synced fingerprint of each receipt.
//
// The store is a collaborator of the sync core: it only persists values.
// Fingerprints are derived by package fingerprint and compared by package
// reconcile; sync_state merely remembers what was last pushed.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: line items and sync state cascade with their receipt
//
// Pragmas are passed in the DSN so every pooled connection carries them.
// Schema changes are applied by golang-migrate from the embedded
// migrations directory.
//
// All list queries use a deterministic ORDER BY.
package store
