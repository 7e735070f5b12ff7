// Package fingerprint converts canonical payloads into fixed-length SHA-256
// digests used as change-detection tokens, and derives namespaced store
// identities for the external accounting identifier scheme.
//
// A fingerprint is NOT a security credential. It answers one question: has
// the record materially changed since it was last synchronized? A failed
// digest is reported as an error and must be treated as "fingerprint
// unknown", never as "unchanged".
package fingerprint
