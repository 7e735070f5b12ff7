package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
)

// Sentinels wrapped around the positional store identity fields.
// Version suffix enables future algorithm migration.
const (
	IdentityHeader = "jobsync/store-identity/v1|"
	IdentityFooter = "|end"

	identitySeparator = "|"
)

// Size is the digest length in bytes. Hex fingerprints are twice as long.
const Size = sha256.Size

// Fingerprint is a lowercase hex SHA-256 digest.
type Fingerprint string

// String returns the hex form.
func (f Fingerprint) String() string {
	return string(f)
}

// IsZero reports whether f is the empty value, i.e. absent or unknown.
func (f Fingerprint) IsZero() bool {
	return f == ""
}

// Canonical is implemented by payloads with a byte-stable serialization.
type Canonical interface {
	MarshalCanonical() ([]byte, error)
}

// Engine computes fingerprints. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	newHash func() hash.Hash
}

// Option configures an Engine.
type Option func(*Engine)

// WithHash overrides the digest constructor. Intended for tests that
// exercise the failure path; the constructor must produce Size-byte sums.
func WithHash(fn func() hash.Hash) Option {
	return func(e *Engine) {
		e.newHash = fn
	}
}

// New creates an Engine backed by crypto/sha256.
func New(opts ...Option) *Engine {
	e := &Engine{newHash: sha256.New}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fingerprint serializes payload and digests the UTF-8 bytes of the
// serialization. Serialization errors (e.g. validation) are returned
// unchanged in the chain; digest failures are *DigestUnavailableError.
//
// A cancelled ctx yields ctx.Err(): the comparison stays undecided.
func (e *Engine) Fingerprint(ctx context.Context, payload Canonical) (Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := payload.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	return e.digest(ctx, "fingerprint", data)
}

// StoreIdentity derives a stable external accounting identifier tied to a
// store and period. Inputs are positional and used verbatim:
//
//	SHA256(IdentityHeader + storeID + "|" + changeCounter + "|" + endDate + IdentityFooter)
//
// The caller guarantees field order and formatting.
func (e *Engine) StoreIdentity(ctx context.Context, storeID string, changeCounter int64, endDate string) (Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input := IdentityHeader +
		storeID + identitySeparator +
		strconv.FormatInt(changeCounter, 10) + identitySeparator +
		endDate + IdentityFooter

	return e.digest(ctx, "store_identity", []byte(input))
}

// digest runs the hash primitive, converting every failure mode into a
// *DigestUnavailableError.
func (e *Engine) digest(ctx context.Context, op string, data []byte) (fp Fingerprint, err error) {
	if e == nil || e.newHash == nil {
		return "", &DigestUnavailableError{Op: op, Err: errors.New("no digest constructor configured")}
	}

	defer func() {
		if r := recover(); r != nil {
			fp = ""
			err = &DigestUnavailableError{Op: op, Err: fmt.Errorf("digest panicked: %v", r)}
		}
	}()

	h := e.newHash()
	if h == nil {
		return "", &DigestUnavailableError{Op: op, Err: errors.New("digest constructor returned nil")}
	}
	if _, err := h.Write(data); err != nil {
		return "", &DigestUnavailableError{Op: op, Err: err}
	}

	sum := h.Sum(nil)
	if len(sum) != Size {
		return "", &DigestUnavailableError{Op: op, Err: fmt.Errorf("unexpected digest size %d, want %d", len(sum), Size)}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return Fingerprint(hex.EncodeToString(sum)), nil
}

// Must is a helper that wraps a call returning (Fingerprint, error) and
// panics if the error is non-nil. Use only in tests.
func Must(fp Fingerprint, err error) Fingerprint {
	if err != nil {
		panic(err)
	}
	return fp
}
