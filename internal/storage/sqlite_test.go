package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/internal/common"
	"github.com/ledgerlens/ledgerlens/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "ledgerlens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestTransactionRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{
			ID:           "t1",
			Date:         time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
			Description:  "NETFLIX.COM AU",
			MerchantName: "Netflix",
			Currency:     "AUD",
			Amount:       decimal.RequireFromString("-22.99"),
			AccountID:    "acc-1",
		},
		{
			ID:       "t2",
			Date:     time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			Currency: "USD",
			Amount:   decimal.RequireFromString("2500"),
			MCC:      "6011",
		},
	}

	n, err := s.UpsertTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Upserting again replaces, not duplicates.
	_, err = s.UpsertTransactions(ctx, txns[:1])
	require.NoError(t, err)

	got, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("-22.99")))
	assert.Equal(t, "6011", got[1].MCC)
}

func TestCategorizationRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	c := model.Categorization{
		TransactionID: "t1",
		Category:      model.CategorySubscriptions,
		Type:          model.TypeDebit,
		Source:        model.SourceRule,
		RuleID:        "sub_netflix",
		Confidence:    0.95,
	}
	require.NoError(t, s.SaveCategorization(ctx, c))

	got, err := s.GetCategorization(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = s.GetCategorization(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestLearningKeys(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	added, err := s.SaveLearningKeys(ctx, []string{"AUD|kebab shop", "USD|unknown merchant"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// Re-saving is idempotent.
	added, err = s.SaveLearningKeys(ctx, []string{"AUD|kebab shop", "AUD|new vendor"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	keys, err := s.ListLearningKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AUD|kebab shop", "USD|unknown merchant", "AUD|new vendor"}, keys)
}

func TestEmptyListLearningKeys(t *testing.T) {
	s := newTestStorage(t)

	keys, err := s.ListLearningKeys(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}
