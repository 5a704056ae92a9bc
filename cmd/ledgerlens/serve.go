package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classification HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr, dbPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for learning-queue exports")

	return cmd
}

func runServe(ctx context.Context, addr, dbPath string) error {
	svc, err := createEngine()
	if err != nil {
		return err
	}

	var learningStore server.LearningStore
	store, err := openStorage(dbPath)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		learningStore = store
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(svc, learningStore, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
