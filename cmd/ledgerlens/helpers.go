package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/ledgerlens/ledgerlens/internal/categorize"
	"github.com/ledgerlens/ledgerlens/internal/llm"
	"github.com/ledgerlens/ledgerlens/internal/rules"
	"github.com/ledgerlens/ledgerlens/internal/storage"
)

// createLLMClient creates a provider client from configuration. Shared by
// every command that reaches the AI fallback.
func createLLMClient() (llm.Client, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai"
	}

	cfg := llm.Config{
		Provider:  provider,
		Model:     viper.GetString("llm.model"),
		MaxTokens: viper.GetInt("llm.max_tokens"),
		Timeout:   viper.GetDuration("llm.timeout"),
	}

	switch provider {
	case "openai":
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	case "anthropic":
		apiKey := viper.GetString("llm.anthropic_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	return llm.NewClient(cfg)
}

// createEngine wires the rule matcher and AI client into a service.
func createEngine() (*categorize.Service, error) {
	client, err := createLLMClient()
	if err != nil {
		return nil, err
	}
	matcher := rules.NewMatcher(rules.DefaultRules())
	return categorize.NewService(matcher, client, slog.Default()), nil
}

// openStorage opens the configured SQLite database, honoring a --db flag
// override. Returns nil when no database is configured.
func openStorage(flagPath string) (*storage.SQLiteStorage, error) {
	dbPath := flagPath
	if dbPath == "" {
		dbPath = viper.GetString("storage.db_path")
	}
	if dbPath == "" {
		return nil, nil
	}
	return storage.NewSQLiteStorage(dbPath)
}
