package record

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jobsync/internal/validate"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

// Amount is a monetary value in integer minor units (cents).
// Amounts are compared exactly; there is no float representation.
type Amount int64

// ParseAmount parses a decimal string such as "12.34" or "-0.5" exactly.
// More than Scale fractional digits is an error, never a rounding.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, validate.Missing("amount", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, validate.Invalid("amount", "", fmt.Sprintf("not a decimal number: %q", s))
	}

	minor := d.Shift(Scale)
	if !minor.IsInteger() {
		return 0, validate.Invalid("amount", "", fmt.Sprintf("%q has more than %d decimal places", s, Scale))
	}
	if !minor.BigInt().IsInt64() {
		return 0, validate.Invalid("amount", "", fmt.Sprintf("%q is out of range", s))
	}

	return Amount(minor.IntPart()), nil
}

// MustParseAmount is like ParseAmount but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Ptr returns a pointer to a, for populating optional fields.
func (a Amount) Ptr() *Amount {
	return &a
}

// String renders the amount with exactly Scale fractional digits.
func (a Amount) String() string {
	return decimal.New(int64(a), -Scale).StringFixed(Scale)
}

// MarshalJSON encodes the amount as a decimal string to avoid float decoding
// on the other side.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both `"12.34"` and the number literal `12.34`.
// The literal text is parsed, so no float conversion happens.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(bytes.Trim(data, `"`))
	parsed, err := ParseAmount(text)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML encodes the amount as a decimal string.
func (a Amount) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML parses the scalar's literal text.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return validate.Invalid("amount", "", fmt.Sprintf("expected a scalar at line %d", node.Line))
	}
	parsed, err := ParseAmount(node.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
