// Package validate holds the validation error type shared by the
// canonicalizer and the identifier guards.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a required field that is missing or blank.
// Validation errors are surfaced to the immediate caller and never retried.
type ValidationError struct {
	// Field names the offending field, e.g. "amount" or "line_items[2].amount".
	Field string

	// ContextID identifies the record or project being validated.
	ContextID string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.ContextID != "" {
		return fmt.Sprintf("%s: %s (context=%s)", e.Field, e.Reason, e.ContextID)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Missing creates a ValidationError for an absent field.
func Missing(field, contextID string) *ValidationError {
	return &ValidationError{Field: field, ContextID: contextID, Reason: "is required"}
}

// Invalid creates a ValidationError with a custom reason.
func Invalid(field, contextID, reason string) *ValidationError {
	return &ValidationError{Field: field, ContextID: contextID, Reason: reason}
}

// RequireNonEmpty trims text and fails when nothing is left.
// Used upstream of external identifier construction, e.g. for project
// abbreviations.
func RequireNonEmpty(text, contextID string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Field: "value", ContextID: contextID, Reason: "must not be blank"}
	}
	return trimmed, nil
}

// IsValidationError returns true if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
