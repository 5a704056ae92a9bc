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

const defaultOpenAIBaseURL = "https://api.openai.com"

// openAIClient implements the Client interface for the OpenAI chat
// completions API.
type openAIClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	maxTokens  int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &openAIClient{
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

// Classify sends one classification request. Sampling is pinned to
// temperature 0 with a JSON response-format constraint so identical inputs
// reproduce identical verdicts as far as the provider allows.
func (c *openAIClient) Classify(ctx context.Context, classifyReq Request) (Verdict, error) {
	messages, err := buildMessages(classifyReq)
	if err != nil {
		return Verdict{}, err
	}

	requestBody := map[string]any{
		"model":           c.model,
		"messages":        messages,
		"temperature":     0,
		"max_tokens":      c.maxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return Verdict{}, fmt.Errorf("%w: OpenAI API status %d: %s", common.ErrProviderFailure, resp.StatusCode, truncate(string(body), 200))
	}

	// From here on the call has succeeded; anything unparseable degrades to
	// an empty verdict instead of an error.
	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Verdict{}, nil
	}
	if len(response.Choices) == 0 {
		return Verdict{}, nil
	}

	return parseVerdict(response.Choices[0].Message.Content), nil
}

// openAIResponse represents the chat completions response envelope.
type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
