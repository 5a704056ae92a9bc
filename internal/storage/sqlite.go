// Package storage persists transactions, categorizations, and learning-queue
// exports in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlens/ledgerlens/internal/common"
	"github.com/ledgerlens/ledgerlens/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements persistence on a single SQLite file.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when missing.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			merchant_name TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL,
			currency TEXT NOT NULL,
			mcc TEXT NOT NULL DEFAULT '',
			region_hint TEXT NOT NULL DEFAULT '',
			account_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS categorizations (
			transaction_id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			type TEXT NOT NULL,
			source TEXT NOT NULL,
			rule_id TEXT NOT NULL DEFAULT '',
			rationale TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL,
			classified_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning_keys (
			key TEXT PRIMARY KEY,
			first_seen TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// UpsertTransactions inserts or replaces transactions, returning the count
// written.
func (s *SQLiteStorage) UpsertTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO transactions
		(id, date, description, merchant_name, amount, currency, mcc, region_hint, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	count := 0
	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx,
			t.ID,
			t.Date.Format(time.RFC3339),
			t.Description,
			t.MerchantName,
			t.Amount.String(),
			t.Currency,
			t.MCC,
			string(t.RegionHint),
			t.AccountID,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert transaction %s: %w", t.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return count, nil
}

// ListTransactions returns stored transactions ordered by date.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, description, merchant_name,
		amount, currency, mcc, region_hint, account_id
		FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var date, amount, region string
		if err := rows.Scan(&t.ID, &date, &t.Description, &t.MerchantName,
			&amount, &t.Currency, &t.MCC, &region, &t.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("invalid date for transaction %s: %w", t.ID, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount for transaction %s: %w", t.ID, err)
		}
		t.RegionHint = model.Region(region)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// SaveCategorization stores (or replaces) a verdict for a transaction.
func (s *SQLiteStorage) SaveCategorization(ctx context.Context, c model.Categorization) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO categorizations
		(transaction_id, category, type, source, rule_id, rationale, confidence, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.TransactionID,
		string(c.Category),
		string(c.Type),
		string(c.Source),
		c.RuleID,
		c.Rationale,
		c.Confidence,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save categorization for %s: %w", c.TransactionID, err)
	}
	return nil
}

// GetCategorization fetches the verdict for a transaction, or
// common.ErrNotFound.
func (s *SQLiteStorage) GetCategorization(ctx context.Context, transactionID string) (model.Categorization, error) {
	var c model.Categorization
	var category, txnType, source string

	err := s.db.QueryRowContext(ctx, `SELECT transaction_id, category, type, source,
		rule_id, rationale, confidence
		FROM categorizations WHERE transaction_id = ?`, transactionID).
		Scan(&c.TransactionID, &category, &txnType, &source, &c.RuleID, &c.Rationale, &c.Confidence)
	if err == sql.ErrNoRows {
		return model.Categorization{}, fmt.Errorf("categorization for %s: %w", transactionID, common.ErrNotFound)
	}
	if err != nil {
		return model.Categorization{}, fmt.Errorf("failed to get categorization: %w", err)
	}

	c.Category = model.Category(category)
	c.Type = model.TransactionType(txnType)
	c.Source = model.Source(source)
	return c, nil
}

// SaveLearningKeys persists learning-queue keys; already-present keys are
// ignored so repeated exports stay idempotent.
func (s *SQLiteStorage) SaveLearningKeys(ctx context.Context, keys []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO learning_keys (key, first_seen) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, key := range keys {
		res, err := stmt.ExecContext(ctx, key, now)
		if err != nil {
			return 0, fmt.Errorf("failed to save learning key %q: %w", key, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return added, nil
}

// ListLearningKeys returns persisted learning keys in first-seen order.
func (s *SQLiteStorage) ListLearningKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM learning_keys ORDER BY first_seen, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan learning key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
