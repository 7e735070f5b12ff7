package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jobsync/internal/validate"
)

func TestExternalReference(t *testing.T) {
	p, _, _ := newTestPlanner(t)

	ref, err := p.ExternalReference(context.Background(), " ABC ", "store-42", 7, "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, "ABC-478c9262ec08c2015580fe50f57af23a64774a1650d83d85f103a35ea4391347", ref)
}

func TestExternalReference_BlankAbbreviation(t *testing.T) {
	p, _, _ := newTestPlanner(t)

	_, err := p.ExternalReference(context.Background(), "  ", "proj-123", 1, "2024-06-30")
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrValidation)

	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "proj-123", verr.ContextID)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, ReasonValidation, FailureReason(validate.Missing("amount", "r-1")))
	assert.Equal(t, ReasonCancelled, FailureReason(context.DeadlineExceeded))
	assert.Equal(t, ReasonStore, FailureReason(assert.AnError))
}
