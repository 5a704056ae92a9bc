package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledgerlens/ledgerlens/internal/common"
)

const defaultAnthropicBaseURL = "https://api.anthropic.com"

// anthropicClient implements the Client interface for the Anthropic messages
// API. Anthropic has no response-format parameter, so the system prompt and
// worked examples carry the strict-JSON constraint alone.
type anthropicClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	maxTokens  int
}

// newAnthropicClient creates a new Anthropic API client.
func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &anthropicClient{
		apiKey:    cfg.APIKey,
		model:     model,
		baseURL:   baseURL,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Classify sends one classification request with temperature pinned to 0.
func (c *anthropicClient) Classify(ctx context.Context, classifyReq Request) (Verdict, error) {
	messages, err := buildMessages(classifyReq)
	if err != nil {
		return Verdict{}, err
	}

	// The messages API takes the system prompt as a top-level field.
	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": 0,
		"system":      messages[0].Content,
		"messages":    messages[1:],
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", strings.NewReader(string(jsonBody)))
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", common.ErrProviderFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: failed to read response: %v", common.ErrProviderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("%w: Anthropic API status %d: %s", common.ErrProviderFailure, resp.StatusCode, truncate(string(body), 200))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Verdict{}, nil
	}
	if len(response.Content) == 0 {
		return Verdict{}, nil
	}

	return parseVerdict(response.Content[0].Text), nil
}

// anthropicResponse represents the messages API response envelope.
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}
