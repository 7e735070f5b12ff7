package reconcile

import (
	"context"
	"errors"

	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/validate"
)

// Status is the sync state of one record.
type Status string

const (
	// StatusUnsynced: the record has never been pushed.
	StatusUnsynced Status = "unsynced"
	// StatusNoChange: the current fingerprint equals the last pushed one.
	StatusNoChange Status = "no_change"
	// StatusNeedsSync: the record changed since the last push.
	StatusNeedsSync Status = "needs_sync"
	// StatusSynced: the record was just pushed and stamped.
	StatusSynced Status = "synced"
	// StatusUndecided: the fingerprint is unknown.
	StatusUndecided Status = "undecided"
)

// NeedsPush reports whether a record in this state must be sent to the
// external system. Undecided is not a push; it must be retried.
func (s Status) NeedsPush() bool {
	return s == StatusUnsynced || s == StatusNeedsSync
}

// Failure reasons used as the metrics "reason" label.
const (
	ReasonValidation        = "validation"
	ReasonDigestUnavailable = "digest_unavailable"
	ReasonCancelled         = "cancelled"
	ReasonStore             = "store"
)

// FailureReason classifies an error that left a decision undecided.
func FailureReason(err error) string {
	switch {
	case validate.IsValidationError(err):
		return ReasonValidation
	case fingerprint.IsDigestUnavailable(err):
		return ReasonDigestUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	default:
		return ReasonStore
	}
}

// Decision is the plan outcome for one record.
type Decision struct {
	RecordID    string                  `json:"record_id"`
	Status      Status                  `json:"status"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint,omitempty"`
	LastSynced  fingerprint.Fingerprint `json:"last_synced,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Err         error                   `json:"-"`
}

func undecided(recordID string, err error) Decision {
	return Decision{
		RecordID: recordID,
		Status:   StatusUndecided,
		Reason:   FailureReason(err),
		Error:    err.Error(),
		Err:      err,
	}
}

// Report is the result of planning a batch of records.
type Report struct {
	RunID     string     `json:"run_id"`
	Decisions []Decision `json:"decisions"`
}

// Counts tallies decisions by status.
func (r Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, d := range r.Decisions {
		counts[d.Status]++
	}
	return counts
}

// Pending returns the decisions whose record must be pushed.
func (r Report) Pending() []Decision {
	var out []Decision
	for _, d := range r.Decisions {
		if d.Status.NeedsPush() {
			out = append(out, d)
		}
	}
	return out
}
