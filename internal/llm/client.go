// Package llm provides clients for the language-model providers backing the
// categorization engine's AI fallback path.
package llm

import "context"

// Client is the provider-facing contract for one classification call.
//
// A failed call (network error, non-2xx status) returns an error and no
// verdict. A successful call whose body cannot be parsed returns a zero
// Verdict and a nil error: the caller substitutes defaults rather than
// failing, since the amount sign alone still yields a usable verdict.
type Client interface {
	Classify(ctx context.Context, req Request) (Verdict, error)
}

// Request is the transaction payload serialized into the provider prompt.
// Desc must already be normalized text.
type Request struct {
	Desc     string `json:"desc"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	MCC      string `json:"mcc,omitempty"`
}

// Verdict holds the provider's raw classification fields before enum
// validation. Empty or nil fields mean "absent" and take defaults downstream;
// values outside the closed enumerations are likewise treated as absent.
type Verdict struct {
	Category   string
	Type       string
	Confidence *float64
	Reason     string
}
