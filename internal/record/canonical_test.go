package record

import (
	"math/rand"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jobsync/internal/validate"
)

// deckReceipt returns a receipt with two line items in non-canonical order.
func deckReceipt() Receipt {
	return Receipt{
		ID:               "rcpt-1",
		Amount:           MustParseAmount("12.34").Ptr(),
		Description:      "Lumber for deck",
		VendorID:         "V-100",
		PaymentAccountID: "A1",
		Date:             time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		AttachmentID:     "att-9",
		Notes:            "Paid at counter",
		LineItems: []LineItem{
			{ID: "li-2", Amount: MustParseAmount("2.34").Ptr(), Description: "Screws", ClassificationID: "WC-2"},
			{ID: "li-1", Amount: MustParseAmount("10.00").Ptr(), Description: "Boards", ClassificationID: "WC-1"},
		},
	}
}

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCanonicalizeGolden(t *testing.T) {
	p, err := deckReceipt().Canonicalize()
	require.NoError(t, err)

	data, err := p.MarshalCanonical()
	require.NoError(t, err)

	newGolden(t).Assert(t, "receipt_basic", data)
}

func TestCanonicalizeGoldenNoLines(t *testing.T) {
	r := Receipt{
		ID:          "rcpt-2",
		Amount:      MustParseAmount("-5").Ptr(),
		Description: "Refund <returned> & credited",
		VendorID:    "V-7",
		Date:        time.Date(2024, 3, 5, 11, 15, 30, 250_000_000, time.FixedZone("EET", 2*3600)),
	}

	p, err := r.Canonicalize()
	require.NoError(t, err)

	data, err := p.MarshalCanonical()
	require.NoError(t, err)

	newGolden(t).Assert(t, "receipt_refund_no_lines", data)
}

func TestCanonicalizeSortsLineItems(t *testing.T) {
	r := deckReceipt()
	r.LineItems = []LineItem{
		{Amount: Amount(300).Ptr(), Description: "b", ClassificationID: "WC-1"},
		{Amount: Amount(200).Ptr(), Description: "a", ClassificationID: "WC-2"},
		{Amount: Amount(100).Ptr(), Description: "b", ClassificationID: "WC-1"},
		{Amount: Amount(900).Ptr(), Description: "a", ClassificationID: "WC-1"},
	}

	p, err := r.Canonicalize()
	require.NoError(t, err)

	assert.Equal(t, []Line{
		{ClassificationID: "WC-1", Description: "a", Amount: 900},
		{ClassificationID: "WC-1", Description: "b", Amount: 100},
		{ClassificationID: "WC-1", Description: "b", Amount: 300},
		{ClassificationID: "WC-2", Description: "a", Amount: 200},
	}, p.LineItems)
}

func TestCanonicalizeOrderIndependent(t *testing.T) {
	r := deckReceipt()
	r.LineItems = append(r.LineItems,
		LineItem{Amount: Amount(5).Ptr(), Description: "Nails", ClassificationID: "WC-2"},
		LineItem{Amount: Amount(5).Ptr(), Description: "Nails", ClassificationID: "WC-2"},
		LineItem{Amount: Amount(-5).Ptr(), Description: "", ClassificationID: ""},
	)

	base, err := r.Canonicalize()
	require.NoError(t, err)
	want, err := base.MarshalCanonical()
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := r
		shuffled.LineItems = append([]LineItem(nil), r.LineItems...)
		rng.Shuffle(len(shuffled.LineItems), func(a, b int) {
			shuffled.LineItems[a], shuffled.LineItems[b] = shuffled.LineItems[b], shuffled.LineItems[a]
		})

		p, err := shuffled.Canonicalize()
		require.NoError(t, err)
		got, err := p.MarshalCanonical()
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), "permutation %d", i)
	}
}

func TestCanonicalizeReverseOrder(t *testing.T) {
	r := deckReceipt()
	reversed := r
	reversed.LineItems = []LineItem{r.LineItems[1], r.LineItems[0]}

	a, err := Canonicalize(r, r.LineItems)
	require.NoError(t, err)
	b, err := Canonicalize(reversed, reversed.LineItems)
	require.NoError(t, err)

	aBytes, err := a.MarshalCanonical()
	require.NoError(t, err)
	bBytes, err := b.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, aBytes, bBytes)
}

func TestCanonicalizeIgnoresStorageIDs(t *testing.T) {
	r := deckReceipt()
	other := deckReceipt()
	other.ID = "rcpt-other"
	other.LineItems[0].ID = "li-x"
	other.LineItems[1].ID = "li-y"

	a, err := r.Canonicalize()
	require.NoError(t, err)
	b, err := other.Canonicalize()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalizeNormalizesTimezone(t *testing.T) {
	r := deckReceipt()
	shifted := deckReceipt()
	shifted.Date = r.Date.In(time.FixedZone("PST", -8*3600))

	a, err := r.Canonicalize()
	require.NoError(t, err)
	b, err := shifted.Canonicalize()
	require.NoError(t, err)

	aBytes, _ := a.MarshalCanonical()
	bBytes, _ := b.MarshalCanonical()
	assert.Equal(t, aBytes, bBytes)
}

func TestCanonicalizeSensitivity(t *testing.T) {
	base, err := deckReceipt().Canonicalize()
	require.NoError(t, err)
	baseBytes, err := base.MarshalCanonical()
	require.NoError(t, err)

	mutations := map[string]func(r *Receipt){
		"amount":              func(r *Receipt) { r.Amount = Amount(1235).Ptr() },
		"description":         func(r *Receipt) { r.Description = "Lumber for porch" },
		"vendor":              func(r *Receipt) { r.VendorID = "V-101" },
		"payment account":     func(r *Receipt) { r.PaymentAccountID = "A2" },
		"date":                func(r *Receipt) { r.Date = r.Date.Add(time.Second) },
		"attachment":          func(r *Receipt) { r.AttachmentID = "att-10" },
		"notes":               func(r *Receipt) { r.Notes = "Paid online" },
		"line amount":         func(r *Receipt) { r.LineItems[0].Amount = MustParseAmount("2.35").Ptr() },
		"line description":    func(r *Receipt) { r.LineItems[0].Description = "Bolts" },
		"line classification": func(r *Receipt) { r.LineItems[0].ClassificationID = "WC-3" },
		"line added": func(r *Receipt) {
			r.LineItems = append(r.LineItems, LineItem{Amount: Amount(0).Ptr()})
		},
		"line removed": func(r *Receipt) { r.LineItems = r.LineItems[:1] },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := deckReceipt()
			mutate(&r)

			p, err := r.Canonicalize()
			require.NoError(t, err)
			got, err := p.MarshalCanonical()
			require.NoError(t, err)
			assert.NotEqual(t, string(baseBytes), string(got))
		})
	}
}

func TestCanonicalizeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Receipt)
		field  string
	}{
		{"missing amount", func(r *Receipt) { r.Amount = nil }, "amount"},
		{"blank description", func(r *Receipt) { r.Description = "  " }, "description"},
		{"zero date", func(r *Receipt) { r.Date = time.Time{} }, "date"},
		{"missing line amount", func(r *Receipt) { r.LineItems[1].Amount = nil }, "line_items[1].amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := deckReceipt()
			tt.mutate(&r)

			_, err := r.Canonicalize()
			require.Error(t, err)

			var ve *validate.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, "rcpt-1", ve.ContextID)
		})
	}
}

func TestCanonicalizeZeroAmountIsValid(t *testing.T) {
	r := deckReceipt()
	r.Amount = Amount(0).Ptr()

	p, err := r.Canonicalize()
	require.NoError(t, err)
	assert.Equal(t, Amount(0), p.Amount)
}

func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	r := deckReceipt()
	_, err := r.Canonicalize()
	require.NoError(t, err)

	assert.Equal(t, "WC-2", r.LineItems[0].ClassificationID)
	assert.Equal(t, "WC-1", r.LineItems[1].ClassificationID)
}
