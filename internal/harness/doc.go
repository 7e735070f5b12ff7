// Package harness runs sync scenarios end to end against a real store.
//
// A scenario seeds accounts, settings and receipts, then executes a flow of
// steps through reconcile.Planner and checks expectations along the way.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	accounts: [A1, A2]
//	settings: { expense_account: A1, payment_accounts: "A1,A2", default_payment_account: A2 }
//	receipts:
//	  - { id: r-1, amount: 12.34, description: Boards, date: 2024-03-05T14:30:00Z }
//	flow:
//	  - plan: [r-1]
//	    expect: { status: { r-1: unsynced } }
//	  - mark_synced: r-1
//	  - delete_account: A2
//	    expect: { settings: { default_payment_account: A1 } }
//	assertions:
//	  - type: final_status
//	    record: r-1
//	    status: no_change
//	  - type: settings_valid
//
// # Step Types
//
// Each flow step sets exactly one of:
//
//   - plan: plan the listed records
//   - plan_all: plan every stored record
//   - mark_synced: stamp a record's current fingerprint
//   - save: insert or replace a receipt
//   - delete_account: delete an account and repair settings
//   - add_account: add an account and re-run the repair
//
// # Assertion Types
//
//   - final_status: plans a record after the flow and checks its status
//   - trace_count: a step type appears exactly N times in the trace
//   - settings: stored settings fields equal the expected values
//   - settings_valid: every account reference is empty or a live account,
//     and the default payment account is listed
//
// # Deterministic Testing
//
// The harness uses a fresh SQLite database per run and a deterministic sync
// clock (testutil.DeterministicClock), so traces are byte-stable and can be
// compared against golden files with RunWithGolden.
package harness
