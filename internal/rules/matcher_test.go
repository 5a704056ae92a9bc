package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/internal/model"
)

func txn(desc string, amount string, currency string) model.Transaction {
	return model.Transaction{
		ID:          "txn-1",
		Description: desc,
		Currency:    currency,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestMatcherFirstMatchWins(t *testing.T) {
	overlapping := []model.Rule{
		{ID: "first", Region: model.RegionAll, Keywords: []string{"acme"}, Category: model.CategoryShopping},
		{ID: "second", Region: model.RegionAll, Keywords: []string{"acme"}, Category: model.CategoryMisc},
	}

	m := NewMatcher(overlapping)
	got, ok := m.Match(txn("ACME STORE 42", "-10.00", "AUD"))
	require.True(t, ok)
	assert.Equal(t, "first", got.RuleID)
	assert.Equal(t, model.CategoryShopping, got.Category)

	// Reordering the same rules flips the winner; order is part of the
	// contract.
	m = NewMatcher([]model.Rule{overlapping[1], overlapping[0]})
	got, ok = m.Match(txn("ACME STORE 42", "-10.00", "AUD"))
	require.True(t, ok)
	assert.Equal(t, "second", got.RuleID)
	assert.Equal(t, model.CategoryMisc, got.Category)
}

func TestMatcherRegionScoping(t *testing.T) {
	m := NewMatcher(DefaultRules())

	// AU-scoped rule matches an AUD transaction.
	got, ok := m.Match(txn("WOOLWORTHS 1234 SYDNEY", "-84.20", "AUD"))
	require.True(t, ok)
	assert.Equal(t, "gro_woolworths", got.RuleID)

	// The same text in USD infers region US; the AU rule must not fire.
	_, ok = m.Match(txn("WOOLWORTHS 1234 SYDNEY", "-84.20", "USD"))
	assert.False(t, ok)

	// An explicit region hint overrides the currency inference.
	usdWithHint := txn("WOOLWORTHS 1234 SYDNEY", "-84.20", "USD")
	usdWithHint.RegionHint = model.RegionAU
	got, ok = m.Match(usdWithHint)
	require.True(t, ok)
	assert.Equal(t, "gro_woolworths", got.RuleID)

	// Region ALL transactions (unsupported currency, no hint) only see
	// ALL-scoped rules.
	_, ok = m.Match(txn("WOOLWORTHS 1234 SYDNEY", "-84.20", "EUR"))
	assert.False(t, ok)
	got, ok = m.Match(txn("NETFLIX.COM", "-15.99", "EUR"))
	require.True(t, ok)
	assert.Equal(t, "sub_netflix", got.RuleID)
}

func TestMatcherConfidenceDefaults(t *testing.T) {
	m := NewMatcher([]model.Rule{
		{ID: "kw", Region: model.RegionAll, Keywords: []string{"alpha"}, Category: model.CategoryMisc},
		{ID: "re", Region: model.RegionAll, Pattern: `\bbeta\b`, Category: model.CategoryMisc},
		{ID: "fixed", Region: model.RegionAll, Keywords: []string{"gamma"}, Category: model.CategoryMisc, Confidence: 0.75},
	})

	got, ok := m.Match(txn("alpha corp", "-1.00", "AUD"))
	require.True(t, ok)
	assert.InDelta(t, 0.95, got.Confidence, 0.0001)

	got, ok = m.Match(txn("beta corp", "-1.00", "AUD"))
	require.True(t, ok)
	assert.InDelta(t, 0.90, got.Confidence, 0.0001)

	got, ok = m.Match(txn("gamma corp", "-1.00", "AUD"))
	require.True(t, ok)
	assert.InDelta(t, 0.75, got.Confidence, 0.0001)
}

func TestMatcherTypeDerivation(t *testing.T) {
	m := NewMatcher([]model.Rule{
		{ID: "override", Region: model.RegionAll, Keywords: []string{"atm"}, Category: model.CategoryCash, Type: model.TypeATM},
		{ID: "plain", Region: model.RegionAll, Keywords: []string{"store"}, Category: model.CategoryShopping},
	})

	got, _ := m.Match(txn("ATM WITHDRAWAL", "-100.00", "AUD"))
	assert.Equal(t, model.TypeATM, got.Type)

	got, _ = m.Match(txn("store credit", "25.00", "AUD"))
	assert.Equal(t, model.TypeCredit, got.Type)

	got, _ = m.Match(txn("store purchase", "-25.00", "AUD"))
	assert.Equal(t, model.TypeDebit, got.Type)

	got, _ = m.Match(txn("store adjustment", "0", "AUD"))
	assert.Equal(t, model.TypeUnknown, got.Type)
}

func TestMatcherMerchantNamePrecedesDescription(t *testing.T) {
	m := NewMatcher(DefaultRules())

	tx := model.Transaction{
		ID:           "txn-2",
		MerchantName: "Netflix",
		Description:  "Direct Debit 004422",
		Currency:     "AUD",
		Amount:       decimal.RequireFromString("-22.99"),
	}
	got, ok := m.Match(tx)
	require.True(t, ok)
	assert.Equal(t, "sub_netflix", got.RuleID)
}

func TestMatcherNetflixEndToEnd(t *testing.T) {
	m := NewMatcher(DefaultRules())

	got, ok := m.Match(txn("NETFLIX.COM AU", "-22.99", "AUD"))
	require.True(t, ok)
	assert.Equal(t, model.Categorization{
		TransactionID: "txn-1",
		Category:      model.CategorySubscriptions,
		Type:          model.TypeDebit,
		Source:        model.SourceRule,
		RuleID:        "sub_netflix",
		Confidence:    0.95,
	}, got)
}

func TestMatcherUberEatsBeforeUber(t *testing.T) {
	m := NewMatcher(DefaultRules())

	got, ok := m.Match(txn("UBER *EATS SYDNEY", "-34.50", "AUD"))
	require.True(t, ok)
	assert.Equal(t, "din_ubereats", got.RuleID)
	assert.Equal(t, model.CategoryDining, got.Category)

	got, ok = m.Match(txn("UBER TRIP 8842", "-19.80", "AUD"))
	require.True(t, ok)
	assert.Equal(t, "tra_uber", got.RuleID)
	assert.Equal(t, model.CategoryTransport, got.Category)
}

func TestMatcherMiss(t *testing.T) {
	m := NewMatcher(DefaultRules())

	_, ok := m.Match(txn("UNKNOWN MERCHANT XYZ", "2500", "USD"))
	assert.False(t, ok)
}
