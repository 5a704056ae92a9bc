// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Region scopes rules and transactions to a market.
type Region string

// Region constants.
const (
	RegionAU  Region = "AU"
	RegionUS  Region = "US"
	RegionAll Region = "ALL"
)

// Supported currency codes.
const (
	CurrencyAUD = "AUD"
	CurrencyUSD = "USD"
)

// Transaction represents a single bank-ledger entry to classify. It is owned
// by the caller and read-only to the engine.
type Transaction struct {
	Date         time.Time
	ID           string
	Description  string // Raw transaction description
	MerchantName string // Cleaned merchant name, often more reliable than Description
	Currency     string
	MCC          string // Merchant category code, when the source provides one
	AccountID    string
	RegionHint   Region          // Explicit region override, empty when unknown
	Amount       decimal.Decimal // Signed; negative is money leaving the account
}

// InferRegion resolves the market scope of a transaction. An explicit hint
// wins; otherwise the currency decides. Anything else resolves to ALL, which
// restricts rule matching to ALL-scoped rules only.
func InferRegion(t Transaction) Region {
	switch t.RegionHint {
	case RegionAU, RegionUS, RegionAll:
		return t.RegionHint
	}
	switch t.Currency {
	case CurrencyAUD:
		return RegionAU
	case CurrencyUSD:
		return RegionUS
	}
	return RegionAll
}
