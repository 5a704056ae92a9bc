package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the semantic direction or nature of a money movement,
// distinct from its budgeting category.
type TransactionType string

// The closed transaction type set.
const (
	TypeCredit   TransactionType = "credit"
	TypeDebit    TransactionType = "debit"
	TypeTransfer TransactionType = "transfer"
	TypeRefund   TransactionType = "refund"
	TypeFee      TransactionType = "fee"
	TypeATM      TransactionType = "atm"
	TypeInterest TransactionType = "interest"
	TypeUnknown  TransactionType = "unknown"
)

// TransactionTypes returns the closed type set.
func TransactionTypes() []TransactionType {
	return []TransactionType{
		TypeCredit, TypeDebit, TypeTransfer, TypeRefund,
		TypeFee, TypeATM, TypeInterest, TypeUnknown,
	}
}

// ParseTransactionType maps a raw string onto the closed type set.
func ParseTransactionType(s string) (TransactionType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range TransactionTypes() {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// TypeFromAmount derives a transaction type from the amount sign alone. It is
// the fallback when neither a rule override nor the AI verdict supplies one.
func TypeFromAmount(amount decimal.Decimal) TransactionType {
	switch amount.Sign() {
	case 1:
		return TypeCredit
	case -1:
		return TypeDebit
	}
	return TypeUnknown
}

// Source indicates which engine stage produced a verdict.
type Source string

// Source constants.
const (
	SourceRule Source = "rule"
	SourceAI   Source = "ai"
)

// Categorization is the engine's verdict for one transaction. Category and
// Type are always drawn from their closed sets; Confidence is always present.
type Categorization struct {
	TransactionID string
	Category      Category
	Type          TransactionType
	Source        Source
	RuleID        string // set when Source is rule
	Rationale     string // set when Source is ai and the provider gave a reason
	Confidence    float64
}
