package llm

import (
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for an LLM provider client.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string // override for tests; defaults to the provider endpoint
	MaxTokens int
	Timeout   time.Duration
}

// NewClient creates a provider client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
