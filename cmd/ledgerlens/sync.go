package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgerlens/ledgerlens/internal/bankfeed"
)

func syncCmd() *cobra.Command {
	var (
		days   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch transactions from Plaid, classify, and store them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), days, dbPath)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "how many days of history to fetch")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to store results in")

	return cmd
}

func runSync(ctx context.Context, days int, dbPath string) error {
	cfg := bankfeed.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fetcher, err := bankfeed.NewClient(cfg)
	if err != nil {
		return err
	}

	store, err := openStorage(dbPath)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no database configured, set storage.db_path or pass --db")
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	txns, err := fetcher.GetTransactions(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}
	if len(txns) == 0 {
		slog.Info("no transactions in range, nothing to do")
		return nil
	}

	if _, err := store.UpsertTransactions(ctx, txns); err != nil {
		return err
	}

	svc, err := createEngine()
	if err != nil {
		return err
	}

	results, err := svc.ClassifyBatch(ctx, txns)
	if err != nil {
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

	slog.Info("sync complete",
		"fetched", len(txns),
		"classified", len(results),
		"queued_for_rules", svc.QueueSize())

	return nil
}
