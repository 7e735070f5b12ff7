package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jobsync/internal/reconcile"
	"github.com/roach88/jobsync/internal/record"
	"github.com/roach88/jobsync/internal/sanitize"
)

// Scenario defines a sync scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Accounts, Settings and Receipts are stored before the flow runs.
	Accounts []string           `yaml:"accounts,omitempty"`
	Settings *sanitize.Settings `yaml:"settings,omitempty"`
	Receipts []record.Receipt   `yaml:"receipts,omitempty"`

	// Flow contains the steps, executed in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlowStep is one action of a scenario. Exactly one action field is set.
type FlowStep struct {
	Plan          []string        `yaml:"plan,omitempty"`
	PlanAll       bool            `yaml:"plan_all,omitempty"`
	MarkSynced    string          `yaml:"mark_synced,omitempty"`
	Save          *record.Receipt `yaml:"save,omitempty"`
	DeleteAccount string          `yaml:"delete_account,omitempty"`
	AddAccount    string          `yaml:"add_account,omitempty"`

	// Expect is checked right after the step.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Step type names, as they appear in traces.
const (
	StepPlan          = "plan"
	StepMarkSynced    = "mark_synced"
	StepSave          = "save"
	StepDeleteAccount = "delete_account"
	StepAddAccount    = "add_account"
)

// Kind returns the step type, or "" when zero or several actions are set.
func (s FlowStep) Kind() string {
	var kinds []string
	if len(s.Plan) > 0 || s.PlanAll {
		kinds = append(kinds, StepPlan)
	}
	if s.MarkSynced != "" {
		kinds = append(kinds, StepMarkSynced)
	}
	if s.Save != nil {
		kinds = append(kinds, StepSave)
	}
	if s.DeleteAccount != "" {
		kinds = append(kinds, StepDeleteAccount)
	}
	if s.AddAccount != "" {
		kinds = append(kinds, StepAddAccount)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// ExpectClause specifies what a step must produce.
type ExpectClause struct {
	// Status maps record ids to the status the step must report.
	Status map[string]reconcile.Status `yaml:"status,omitempty"`

	// Settings maps settings field names (json names) to stored values.
	Settings map[string]string `yaml:"settings,omitempty"`
}

// Assertion validates the final trace or state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Record and Status are used by final_status.
	Record string           `yaml:"record,omitempty"`
	Status reconcile.Status `yaml:"status,omitempty"`

	// Step and Count are used by trace_count.
	Step  string `yaml:"step,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Expect is used by settings.
	Expect map[string]string `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalStatus   = "final_status"
	AssertTraceCount    = "trace_count"
	AssertSettings      = "settings"
	AssertSettingsValid = "settings_valid"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must have at least one step")
	}
	for i, step := range s.Flow {
		if step.Kind() == "" {
			return fmt.Errorf("flow[%d]: exactly one action must be set", i)
		}
		if step.Save != nil && step.Save.ID == "" {
			return fmt.Errorf("flow[%d]: save requires a receipt id", i)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertFinalStatus:
		if a.Record == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: final_status requires record and status", index)
		}
	case AssertTraceCount:
		if a.Step == "" {
			return fmt.Errorf("assertions[%d]: trace_count requires step", index)
		}
	case AssertSettings:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: settings requires expect", index)
		}
		for field := range a.Expect {
			if _, ok := settingsField(sanitize.Settings{}, field); !ok {
				return fmt.Errorf("assertions[%d]: unknown settings field %q", index, field)
			}
		}
	case AssertSettingsValid:
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}

// settingsField reads a settings field by its json name.
func settingsField(s sanitize.Settings, name string) (string, bool) {
	switch name {
	case "expense_account":
		return s.ExpenseAccount, true
	case "payment_accounts":
		return s.PaymentAccounts, true
	case "default_payment_account":
		return s.DefaultPaymentAccount, true
	case "company_name":
		return s.CompanyName, true
	case "currency":
		return s.Currency, true
	case "receipt_prefix":
		return s.ReceiptPrefix, true
	}
	return "", false
}
