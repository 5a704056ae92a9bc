package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTypeFromAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   TransactionType
	}{
		{"positive amount is credit", "150.00", TypeCredit},
		{"negative amount is debit", "-42.50", TypeDebit},
		{"zero amount is unknown", "0", TypeUnknown},
		{"small positive", "0.01", TypeCredit},
		{"small negative", "-0.01", TypeDebit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, TypeFromAmount(amount))
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	got, ok := ParseTransactionType("DEBIT")
	assert.True(t, ok)
	assert.Equal(t, TypeDebit, got)

	got, ok = ParseTransactionType(" refund ")
	assert.True(t, ok)
	assert.Equal(t, TypeRefund, got)

	_, ok = ParseTransactionType("chargeback")
	assert.False(t, ok)

	_, ok = ParseTransactionType("")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	got, ok := ParseCategory("groceries")
	assert.True(t, ok)
	assert.Equal(t, CategoryGroceries, got)

	got, ok = ParseCategory("Rent/Mortgage")
	assert.True(t, ok)
	assert.Equal(t, CategoryRent, got)

	_, ok = ParseCategory("Lifestyle")
	assert.False(t, ok)

	_, ok = ParseCategory("")
	assert.False(t, ok)
}

func TestCategoriesClosedSet(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 18)

	seen := make(map[Category]bool)
	for _, c := range cats {
		assert.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true
	}
}
