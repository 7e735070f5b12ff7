package cli

import (
	"context"
	"errors"

	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/loader"
	"github.com/roach88/jobsync/internal/reconcile"
	"github.com/roach88/jobsync/internal/store"
	"github.com/roach88/jobsync/internal/validate"
)

// Error code constants, unified across all CLI commands. E001-E007 are the
// document loader codes.
const (
	ErrCodeGeneric = loader.ErrCodeGeneric

	ErrCodeValidation    = "E101" // Required field missing or blank
	ErrCodeDigest        = "E102" // Fingerprint primitive unavailable
	ErrCodeUndecided     = "E103" // Fingerprint unknown, sync not decided
	ErrCodeNotFound      = "E104" // Record or account does not exist
	ErrCodeCancelled     = "E105" // Interrupted before completion
	ErrCodeStore         = "E106" // Database error
	ErrCodeMetricsExport = "E107" // Metrics textfile write failed
)

// ErrorCode maps an error to its CLI code.
func ErrorCode(err error) string {
	var le *loader.LoadError
	switch {
	case errors.As(err, &le):
		return le.Code
	case errors.Is(err, reconcile.ErrUndecided):
		return ErrCodeUndecided
	case validate.IsValidationError(err):
		return ErrCodeValidation
	case fingerprint.IsDigestUnavailable(err):
		return ErrCodeDigest
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCancelled
	case errors.Is(err, errMetricsExport):
		return ErrCodeMetricsExport
	}
	return ErrCodeGeneric
}

var errMetricsExport = errors.New("metrics export failed")
