package reconcile

import (
	"context"

	"github.com/roach88/jobsync/internal/validate"
)

// ExternalReference builds the external accounting identifier for a store
// period: the trimmed abbreviation, a dash, then the store identity digest.
// A blank abbreviation is a validation error tagged with storeID.
func (p *Planner) ExternalReference(ctx context.Context, abbrev, storeID string, changeCounter int64, endDate string) (string, error) {
	prefix, err := validate.RequireNonEmpty(abbrev, storeID)
	if err != nil {
		return "", err
	}
	id, err := p.engine.StoreIdentity(ctx, storeID, changeCounter, endDate)
	if err != nil {
		return "", err
	}
	return prefix + "-" + id.String(), nil
}
