package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/jobsync/internal/sanitize"
)

func (h *Harness) evaluateAssertions(ctx context.Context, result *Result) error {
	for i, a := range h.scenario.Assertions {
		where := fmt.Sprintf("assertions[%d] %s", i, a.Type)
		switch a.Type {
		case AssertFinalStatus:
			d := h.planner.Plan(ctx, a.Record)
			if d.Status != a.Status {
				result.AddError(fmt.Sprintf("%s: record %s: expected %s, got %s", where, a.Record, a.Status, d.Status))
			}

		case AssertTraceCount:
			if got := result.Count(a.Step); got != a.Count {
				result.AddError(fmt.Sprintf("%s: step %s: expected %d events, got %d", where, a.Step, a.Count, got))
			}

		case AssertSettings:
			st, err := h.store.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
			compareSettings(where, st, a.Expect, result)

		case AssertSettingsValid:
			st, err := h.store.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
			valid, err := h.store.AccountIDs(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
			for _, problem := range referenceProblems(st, valid) {
				result.AddError(fmt.Sprintf("%s: %s", where, problem))
			}

		default:
			return fmt.Errorf("%s: unknown assertion type", where)
		}
	}
	return nil
}

// referenceProblems lists violations of the settings reference invariant.
func referenceProblems(st sanitize.Settings, valid sanitize.AccountSet) []string {
	var problems []string
	if st.ExpenseAccount != "" && !valid.Contains(st.ExpenseAccount) {
		problems = append(problems, fmt.Sprintf("expense_account %q is not an account", st.ExpenseAccount))
	}

	listed := sanitize.SplitAccounts(st.PaymentAccounts)
	for _, id := range listed {
		if !valid.Contains(id) {
			problems = append(problems, fmt.Sprintf("payment_accounts entry %q is not an account", id))
		}
	}

	switch {
	case len(listed) == 0 && st.DefaultPaymentAccount != "":
		problems = append(problems, fmt.Sprintf("default_payment_account %q set with no payment accounts", st.DefaultPaymentAccount))
	case len(listed) > 0 && !slices.Contains(listed, st.DefaultPaymentAccount):
		problems = append(problems, fmt.Sprintf("default_payment_account %q is not a payment account", st.DefaultPaymentAccount))
	}
	return problems
}
