// Package common provides shared utilities and types used across the
// application.
package common

import "errors"

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Classification errors. ErrProviderFailure wraps any hard failure of
	// the external classification call: network error, non-2xx status.
	// Such failures are never retried and never cached.
	ErrProviderFailure = errors.New("classification provider failure")
)
