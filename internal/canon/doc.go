// Package canon provides the constrained value model and canonical JSON
// serializer used as hashing input for sync fingerprints.
//
// Key design constraints:
//   - NO float types anywhere - money travels as int64 minor units
//   - NO null - absent values are a validation concern for the caller
//   - Object keys ordered by UTF-16 code units (RFC 8785)
//   - Strings NFC normalized at the serialization boundary
//
// canon imports nothing internal.
package canon
