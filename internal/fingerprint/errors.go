package fingerprint

import (
	"errors"
	"fmt"
)

// ErrDigestUnavailable matches every *DigestUnavailableError via errors.Is.
var ErrDigestUnavailable = errors.New("digest unavailable")

// DigestUnavailableError reports that the digest primitive failed or is
// unsupported. It is a distinct failure value; no placeholder digest is
// ever produced alongside it.
type DigestUnavailableError struct {
	// Op names the engine operation ("fingerprint" or "store_identity").
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DigestUnavailableError) Error() string {
	return fmt.Sprintf("%s: digest unavailable: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DigestUnavailableError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDigestUnavailable.
func (e *DigestUnavailableError) Is(target error) bool {
	return target == ErrDigestUnavailable
}

// IsDigestUnavailable returns true if err is or wraps a *DigestUnavailableError.
func IsDigestUnavailable(err error) bool {
	var de *DigestUnavailableError
	return errors.As(err, &de)
}
