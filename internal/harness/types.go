package harness

import (
	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/reconcile"
)

// TraceEvent records the outcome of one step for one record or account.
type TraceEvent struct {
	Seq         int64                   `json:"seq"`
	Step        string                  `json:"step"`
	RecordID    string                  `json:"record_id,omitempty"`
	Status      reconcile.Status        `json:"status,omitempty"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
	Account     string                  `json:"account,omitempty"`
	Changed     []string                `json:"changed,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains step outcomes in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}

// Count returns how many trace events have the given step type.
func (r *Result) Count(step string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Step == step {
			n++
		}
	}
	return n
}
