package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/jobsync/internal/canon"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
}

// CanonicalValue implements canon.Marshaler. Empty optional fields are
// omitted; changed is always present on account steps.
func (s TraceSnapshot) CanonicalValue() (canon.Value, error) {
	trace := make(canon.Array, len(s.Trace))
	for i, e := range s.Trace {
		pairs := []canon.Pair{
			canon.P("seq", canon.Int(e.Seq)),
			canon.P("step", canon.String(e.Step)),
		}
		if e.RecordID != "" {
			pairs = append(pairs, canon.P("record_id", canon.String(e.RecordID)))
		}
		if e.Status != "" {
			pairs = append(pairs, canon.P("status", canon.String(string(e.Status))))
		}
		if !e.Fingerprint.IsZero() {
			pairs = append(pairs, canon.P("fingerprint", canon.String(e.Fingerprint.String())))
		}
		if e.Reason != "" {
			pairs = append(pairs, canon.P("reason", canon.String(e.Reason)))
		}
		if e.Account != "" {
			pairs = append(pairs,
				canon.P("account", canon.String(e.Account)),
				canon.P("changed", canon.Strings(e.Changed...)),
			)
		}
		trace[i] = canon.ObjectOf(pairs...)
	}

	return canon.ObjectOf(
		canon.P("scenario_name", canon.String(s.ScenarioName)),
		canon.P("trace", trace),
	), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := canon.Marshal(TraceSnapshot{ScenarioName: scenarioName, Trace: result.Trace})
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
