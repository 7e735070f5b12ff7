// Package sanitize repairs account references held by settings after the set
// of valid accounts changes.
//
// Dangling references are not errors: they are healed silently and reported
// only through the changed output value.
package sanitize

import (
	"slices"
	"strings"
)

// AccountSeparator delimits the multi-valued payment accounts field.
const AccountSeparator = ","

// Settings is the stored settings record. Only the three account reference
// fields are touched by Sanitize.
type Settings struct {
	ExpenseAccount        string `json:"expense_account" yaml:"expense_account"`
	PaymentAccounts       string `json:"payment_accounts" yaml:"payment_accounts"`
	DefaultPaymentAccount string `json:"default_payment_account" yaml:"default_payment_account"`

	CompanyName   string `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Currency      string `json:"currency,omitempty" yaml:"currency,omitempty"`
	ReceiptPrefix string `json:"receipt_prefix,omitempty" yaml:"receipt_prefix,omitempty"`
}

// AccountSet is a snapshot of currently valid account identifiers.
type AccountSet map[string]struct{}

// NewAccountSet builds an AccountSet from ids.
func NewAccountSet(ids ...string) AccountSet {
	set := make(AccountSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is a valid account.
func (s AccountSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in lexicographic order.
func (s AccountSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Patch is a partial settings update holding only the account references.
type Patch struct {
	ExpenseAccount        string `json:"expense_account"`
	PaymentAccounts       string `json:"payment_accounts"`
	DefaultPaymentAccount string `json:"default_payment_account"`
}

// Sanitize derives corrected account references for s against valid.
//
//   - expense account: cleared unless valid
//   - payment accounts: split, trimmed, empties and invalid ids dropped,
//     survivors rejoined in their original order
//   - default payment account: kept only if it is valid and still listed,
//     otherwise replaced by the first surviving payment account (or cleared)
//
// The default can change identity, not just become empty, when the original
// default is removed. Sanitize is idempotent for a fixed valid set.
func Sanitize(s Settings, valid AccountSet) Patch {
	var p Patch

	if valid.Contains(s.ExpenseAccount) {
		p.ExpenseAccount = s.ExpenseAccount
	}

	kept := make([]string, 0)
	for _, id := range SplitAccounts(s.PaymentAccounts) {
		if valid.Contains(id) {
			kept = append(kept, id)
		}
	}
	p.PaymentAccounts = JoinAccounts(kept)

	switch {
	case valid.Contains(s.DefaultPaymentAccount) && slices.Contains(kept, s.DefaultPaymentAccount):
		p.DefaultPaymentAccount = s.DefaultPaymentAccount
	case len(kept) > 0:
		p.DefaultPaymentAccount = kept[0]
	}

	return p
}

// Apply returns s with the patch's fields written over it. Other fields are
// left untouched.
func (p Patch) Apply(s Settings) Settings {
	s.ExpenseAccount = p.ExpenseAccount
	s.PaymentAccounts = p.PaymentAccounts
	s.DefaultPaymentAccount = p.DefaultPaymentAccount
	return s
}

// Changed lists the json names of fields whose value differs from s.
func (p Patch) Changed(s Settings) []string {
	var fields []string
	if p.ExpenseAccount != s.ExpenseAccount {
		fields = append(fields, "expense_account")
	}
	if p.PaymentAccounts != s.PaymentAccounts {
		fields = append(fields, "payment_accounts")
	}
	if p.DefaultPaymentAccount != s.DefaultPaymentAccount {
		fields = append(fields, "default_payment_account")
	}
	return fields
}

// SplitAccounts splits a delimited account list, trimming entries and
// dropping empty ones.
func SplitAccounts(list string) []string {
	var ids []string
	for _, part := range strings.Split(list, AccountSeparator) {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// JoinAccounts is the inverse of SplitAccounts for clean input.
func JoinAccounts(ids []string) string {
	return strings.Join(ids, AccountSeparator)
}
