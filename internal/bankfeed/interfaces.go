package bankfeed

import (
	"context"
	"time"

	"github.com/ledgerlens/ledgerlens/internal/model"
)

// TransactionFetcher fetches transactions from a bank aggregator.
type TransactionFetcher interface {
	// GetTransactions fetches transactions within the specified date range.
	GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	// GetAccounts fetches the account IDs visible to the credentials.
	GetAccounts(ctx context.Context) ([]string, error)
}
