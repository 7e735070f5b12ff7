package validate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireNonEmpty(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"trims surrounding space", " ABC ", "ABC", false},
		{"plain", "ABC", "ABC", false},
		{"inner space kept", " A B ", "A B", false},
		{"blank", "  ", "", true},
		{"empty", "", "", true},
		{"tabs and newlines", "\t\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireNonEmpty(tt.input, "proj-123")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.True(t, IsValidationError(err))
				assert.Contains(t, err.Error(), "proj-123")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorWrapped(t *testing.T) {
	err := fmt.Errorf("canonicalize: %w", Missing("amount", "rcpt-1"))

	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "amount", ve.Field)
	assert.Equal(t, "rcpt-1", ve.ContextID)
	assert.Equal(t, "amount: is required (context=rcpt-1)", ve.Error())
}

func TestValidationErrorWithoutContext(t *testing.T) {
	err := Invalid("date", "", "must be set")
	assert.Equal(t, "date: must be set", err.Error())
	assert.False(t, IsValidationError(errors.New("other")))
}
