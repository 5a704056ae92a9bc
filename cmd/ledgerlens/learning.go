package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/categorize"
)

func learningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learning",
		Short: "Manage the rule-authoring learning queue",
	}
	cmd.AddCommand(learningExportCmd())
	return cmd
}

func learningExportCmd() *cobra.Command {
	var (
		dbPath     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted learning-queue keys as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLearningExport(cmd.Context(), dbPath, outputPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to export from")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runLearningExport(ctx context.Context, dbPath, outputPath string) error {
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

	keys, err := store.ListLearningKeys(ctx)
	if err != nil {
		return err
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
	if err := enc.Encode(categorize.LearningExport{Keys: keys}); err != nil {
		return fmt.Errorf("failed to export learning queue: %w", err)
	}
	return nil
}
