package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/categorize"
	"github.com/ledgerlens/ledgerlens/internal/model"
	"github.com/ledgerlens/ledgerlens/internal/ofx"
)

// fileTransaction is the JSON input form accepted by classify.
type fileTransaction struct {
	ID           string `json:"id"`
	Date         string `json:"date,omitempty"`
	Description  string `json:"description"`
	MerchantName string `json:"merchant_name,omitempty"`
	Currency     string `json:"currency"`
	MCC          string `json:"mcc,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	RegionHint   string `json:"region_hint,omitempty"`
	Amount       string `json:"amount"`
}

// classifyResult is one line of classify output.
type classifyResult struct {
	TransactionID string  `json:"transaction_id"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Source        string  `json:"source"`
	RuleID        string  `json:"rule_id,omitempty"`
	Rationale     string  `json:"rationale,omitempty"`
	Confidence    float64 `json:"confidence"`
}

func classifyCmd() *cobra.Command {
	var (
		dbPath      string
		outputPath  string
		learningOut string
	)

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify transactions from an OFX/QFX or JSON file",
		Long: `Reads transactions from an OFX/QFX statement or a JSON array and runs
each through the engine: ordered rules first, then the AI fallback with
result caching. Results are written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), args[0], dbPath, outputPath, learningOut)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to persist results to")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write results to file instead of stdout")
	cmd.Flags().StringVar(&learningOut, "learning-out", "", "write the learning queue to this file afterwards")

	return cmd
}

func runClassify(ctx context.Context, inputPath, dbPath, outputPath, learningOut string) error {
	txns, err := loadTransactions(ctx, inputPath)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return fmt.Errorf("no transactions found in %s", inputPath)
	}

	svc, err := createEngine()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(txns),
		progressbar.OptionSetDescription("Classifying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results := make([]model.Categorization, 0, len(txns))
	for _, txn := range txns {
		c, err := svc.Classify(ctx, txn)
		if err != nil {
			return fmt.Errorf("classification failed at transaction %s: %w", txn.ID, err)
		}
		results = append(results, c)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if err := writeResults(txns, results, outputPath); err != nil {
		return err
	}

	if learningOut != "" {
		if err := writeLearningFile(svc, learningOut); err != nil {
			return err
		}
	}

	if dbPath != "" {
		if err := persistResults(ctx, dbPath, txns, results, svc); err != nil {
			return err
		}
	}

	return nil
}

func loadTransactions(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return ofx.NewParser().ParseFile(ctx, f)
	case ".json":
		var raw []fileTransaction
		if err := json.NewDecoder(f).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		txns := make([]model.Transaction, 0, len(raw))
		for _, ft := range raw {
			txn, err := ft.toModel()
			if err != nil {
				return nil, err
			}
			txns = append(txns, txn)
		}
		return txns, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q, expected .ofx, .qfx, or .json", filepath.Ext(path))
	}
}

func (ft fileTransaction) toModel() (model.Transaction, error) {
	if ft.ID == "" {
		return model.Transaction{}, fmt.Errorf("transaction id is required")
	}

	amount, err := decimal.NewFromString(ft.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q for transaction %s: %w", ft.Amount, ft.ID, err)
	}

	var date time.Time
	if ft.Date != "" {
		if date, err = time.Parse(time.RFC3339, ft.Date); err != nil {
			return model.Transaction{}, fmt.Errorf("invalid date %q for transaction %s: %w", ft.Date, ft.ID, err)
		}
	}

	return model.Transaction{
		ID:           ft.ID,
		Date:         date,
		Description:  ft.Description,
		MerchantName: ft.MerchantName,
		Currency:     ft.Currency,
		MCC:          ft.MCC,
		AccountID:    ft.AccountID,
		RegionHint:   model.Region(ft.RegionHint),
		Amount:       amount,
	}, nil
}

func writeResults(txns []model.Transaction, results []model.Categorization, outputPath string) error {
	out := make([]classifyResult, 0, len(results))
	for i, c := range results {
		out = append(out, classifyResult{
			TransactionID: c.TransactionID,
			Description:   txns[i].Description,
			Category:      string(c.Category),
			Type:          string(c.Type),
			Source:        string(c.Source),
			RuleID:        c.RuleID,
			Rationale:     c.Rationale,
			Confidence:    c.Confidence,
		})
	}

	w := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputPath, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func writeLearningFile(svc *categorize.Service, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return svc.WriteLearningQueue(f)
}

func persistResults(ctx context.Context, dbPath string, txns []model.Transaction, results []model.Categorization, svc *categorize.Service) error {
	store, err := openStorage(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if _, err := store.UpsertTransactions(ctx, txns); err != nil {
		return err
	}
	for _, c := range results {
		if err := store.SaveCategorization(ctx, c); err != nil {
			return err
		}
	}
	if _, err := store.SaveLearningKeys(ctx, svc.LearningKeys()); err != nil {
		return err
	}
	return nil
}
