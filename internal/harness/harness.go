package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/roach88/jobsync/internal/reconcile"
	"github.com/roach88/jobsync/internal/sanitize"
	"github.com/roach88/jobsync/internal/store"
	"github.com/roach88/jobsync/internal/testutil"
)

// Harness executes one scenario against its own database.
type Harness struct {
	scenario *Scenario
	store    *store.Store
	planner  *reconcile.Planner
	seq      int64
}

// Run executes scenario against a fresh database in a temporary directory.
// The returned error covers setup and infrastructure failures; expectation
// mismatches are reported through Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "jobsync-harness-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "harness.db"))
	if err != nil {
		return nil, err
	}
	defer st.Close()

	h := &Harness{
		scenario: scenario,
		store:    st,
		planner: reconcile.New(st, st,
			reconcile.WithAccounts(st),
			reconcile.WithClock(testutil.NewDeterministicClock(0)),
			reconcile.WithWorkers(1),
		),
	}

	if err := h.seed(ctx); err != nil {
		return nil, fmt.Errorf("seed scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	if err := h.executeFlow(ctx, result); err != nil {
		return nil, err
	}
	if err := h.evaluateAssertions(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Harness) seed(ctx context.Context) error {
	return h.store.InTx(ctx, func(tx *store.Store) error {
		for _, id := range h.scenario.Accounts {
			if err := tx.SaveAccount(ctx, store.Account{ID: id}); err != nil {
				return err
			}
		}
		if h.scenario.Settings != nil {
			if err := tx.SaveSettings(ctx, *h.scenario.Settings); err != nil {
				return err
			}
		}
		for _, r := range h.scenario.Receipts {
			if err := tx.SaveReceipt(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Harness) nextSeq() int64 {
	h.seq++
	return h.seq
}

func (h *Harness) executeFlow(ctx context.Context, result *Result) error {
	for i, step := range h.scenario.Flow {
		seq := h.nextSeq()
		var (
			events []TraceEvent
			err    error
		)
		switch step.Kind() {
		case StepPlan:
			events, err = h.plan(ctx, step, seq)
		case StepMarkSynced:
			events = []TraceEvent{h.markSynced(ctx, step.MarkSynced, seq)}
		case StepSave:
			err = h.store.SaveReceipt(ctx, *step.Save)
			events = []TraceEvent{{Seq: seq, Step: StepSave, RecordID: step.Save.ID}}
		case StepDeleteAccount:
			events, err = h.repair(ctx, StepDeleteAccount, step.DeleteAccount, seq)
		case StepAddAccount:
			events, err = h.repair(ctx, StepAddAccount, step.AddAccount, seq)
		default:
			return fmt.Errorf("flow[%d]: invalid step", i)
		}
		if err != nil {
			return fmt.Errorf("flow[%d] %s: %w", i, step.Kind(), err)
		}

		for _, e := range events {
			result.AddTrace(e)
		}
		if step.Expect != nil {
			h.checkExpect(ctx, i, step.Expect, events, result)
		}
	}
	return nil
}

func (h *Harness) plan(ctx context.Context, step FlowStep, seq int64) ([]TraceEvent, error) {
	var (
		report reconcile.Report
		err    error
	)
	if step.PlanAll {
		report, err = h.planner.PlanAll(ctx)
	} else {
		report, err = h.planner.PlanMany(ctx, step.Plan)
	}
	if err != nil {
		return nil, err
	}

	events := make([]TraceEvent, len(report.Decisions))
	for i, d := range report.Decisions {
		events[i] = decisionEvent(StepPlan, seq, d)
	}
	return events, nil
}

func (h *Harness) markSynced(ctx context.Context, recordID string, seq int64) TraceEvent {
	d, err := h.planner.MarkCurrentSynced(ctx, recordID)
	if err != nil && d.Status != reconcile.StatusUndecided {
		d = reconcile.Decision{RecordID: recordID, Status: reconcile.StatusUndecided, Reason: reconcile.FailureReason(err)}
	}
	return decisionEvent(StepMarkSynced, seq, d)
}

func decisionEvent(step string, seq int64, d reconcile.Decision) TraceEvent {
	return TraceEvent{
		Seq:         seq,
		Step:        step,
		RecordID:    d.RecordID,
		Status:      d.Status,
		Fingerprint: d.Fingerprint,
		Reason:      d.Reason,
	}
}

func (h *Harness) repair(ctx context.Context, step, account string, seq int64) ([]TraceEvent, error) {
	var repair reconcile.Repair
	err := h.store.InTx(ctx, func(tx *store.Store) error {
		planner := reconcile.New(tx, tx, reconcile.WithAccounts(tx))
		var err error
		if step == StepDeleteAccount {
			repair, err = planner.DeleteAccount(ctx, account)
			return err
		}
		if err := tx.SaveAccount(ctx, store.Account{ID: account}); err != nil {
			return err
		}
		repair, err = planner.AccountsChanged(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	changed := repair.Changed
	if changed == nil {
		changed = []string{}
	}
	return []TraceEvent{{Seq: seq, Step: step, Account: account, Changed: changed}}, nil
}

func (h *Harness) checkExpect(ctx context.Context, index int, expect *ExpectClause, events []TraceEvent, result *Result) {
	for recordID, want := range expect.Status {
		i := slices.IndexFunc(events, func(e TraceEvent) bool { return e.RecordID == recordID })
		if i < 0 {
			result.AddError(fmt.Sprintf("flow[%d]: no outcome for record %s", index, recordID))
			continue
		}
		if got := events[i].Status; got != want {
			result.AddError(fmt.Sprintf("flow[%d]: record %s: expected status %s, got %s", index, recordID, want, got))
		}
	}

	if len(expect.Settings) > 0 {
		st, err := h.store.GetSettings(ctx)
		if err != nil {
			result.AddError(fmt.Sprintf("flow[%d]: read settings: %v", index, err))
			return
		}
		compareSettings(fmt.Sprintf("flow[%d]", index), st, expect.Settings, result)
	}
}

func compareSettings(where string, st sanitize.Settings, expect map[string]string, result *Result) {
	fields := make([]string, 0, len(expect))
	for field := range expect {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	for _, field := range fields {
		got, ok := settingsField(st, field)
		if !ok {
			result.AddError(fmt.Sprintf("%s: unknown settings field %q", where, field))
			continue
		}
		if want := expect[field]; got != want {
			result.AddError(fmt.Sprintf("%s: settings.%s: expected %q, got %q", where, field, want, got))
		}
	}
}
