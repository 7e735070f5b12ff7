package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"zero", Int(0), "0"},
		{"max int64", Int(9223372036854775807), "9223372036854775807"},
		{"min int64", Int(-9223372036854775808), "-9223372036854775808"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array keeps position", Array{Int(3), Int(1), Int(2)}, "[3,1,2]"},
		{"simple object", Object{"a": Int(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := Object{
		"z": Object{"b": Int(1), "a": Int(2)},
		"a": Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000: UTF-16 order differs from UTF-8
	obj := Object{
		"\uE000": Int(1),
		"𐀀":      Int(2), // surrogate pair 0xD800 0xDC00
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"𐀀":2,"`+"\uE000"+`":1}`, string(result))
}

func TestMarshalCanonicalEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html is literal", "<b>a & b</b>", `"<b>a & b</b>"`},
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `C:\jobs`, `"C:\\jobs"`},
		{"newline and tab", "a\nb\tc", `"a\nb\tc"`},
		{"other control", "a\x01b", `"a\u0001b"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"paragraph separator literal", "a\u2029b", "\"a\u2029b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "é" as e + combining acute (NFD) vs precomposed U+00E9 (NFC)
	decomposed, err := MarshalCanonical(String("Cafe\u0301"))
	require.NoError(t, err)
	composed, err := MarshalCanonical(String("Caf\u00e9"))
	require.NoError(t, err)

	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = MarshalCanonical(Array{String("ok"), nil})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "array[1]")

	_, err = MarshalCanonical(String("bad\xff"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

type fixed struct{ v Value }

func (f fixed) CanonicalValue() (Value, error) { return f.v, nil }

func TestMarshalUsesProjection(t *testing.T) {
	out, err := Marshal(fixed{ObjectOf(P("b", Strings("x", "y")), P("a", Bool(false)))})
	require.NoError(t, err)
	assert.Equal(t, `{"a":false,"b":["x","y"]}`, string(out))
}

func TestCompareUTF16(t *testing.T) {
	assert.Equal(t, 0, CompareUTF16("abc", "abc"))
	assert.Equal(t, -1, CompareUTF16("ab", "abc"))
	assert.Equal(t, 1, CompareUTF16("b", "abc"))
	assert.Equal(t, -1, CompareUTF16("𐀀", "\uE000"))
}
