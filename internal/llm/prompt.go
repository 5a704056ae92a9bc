package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledgerlens/ledgerlens/internal/model"
)

// chatMessage is one turn of a provider conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// systemPrompt names the closed enumerations and demands strict JSON. The
// category and type lists are generated from the model package so the prompt
// can never drift from the enums the engine validates against.
func systemPrompt() string {
	categories := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categories = append(categories, string(c))
	}
	types := make([]string, 0, len(model.TransactionTypes()))
	for _, t := range model.TransactionTypes() {
		types = append(types, string(t))
	}

	return fmt.Sprintf(`You are a bank transaction categorization engine. You MUST respond with ONLY one valid JSON object of the form {"category": ..., "type": ..., "confidence": ..., "reason": ...}. No explanatory text, no markdown fences.

"category" must be exactly one of: %s.
"type" must be exactly one of: %s.
"confidence" is a number between 0 and 1.
"reason" is one short sentence.

Negative amounts are money leaving the account; positive amounts are money arriving.`,
		strings.Join(categories, ", "),
		strings.Join(types, ", "))
}

// exampleMessages is a small fixed set of worked examples sent before the
// transaction payload to anchor the response format.
func exampleMessages() []chatMessage {
	return []chatMessage{
		{Role: "user", Content: `{"desc":"woolworths metro sydney","amount":"-54.20","currency":"AUD"}`},
		{Role: "assistant", Content: `{"category":"Groceries","type":"debit","confidence":0.97,"reason":"Supermarket purchase"}`},
		{Role: "user", Content: `{"desc":"payroll acme pty ltd","amount":"4250.00","currency":"AUD"}`},
		{Role: "assistant", Content: `{"category":"Income","type":"credit","confidence":0.98,"reason":"Salary deposit"}`},
		{Role: "user", Content: `{"desc":"atm withdrawal main st","amount":"-100.00","currency":"USD"}`},
		{Role: "assistant", Content: `{"category":"Cash","type":"atm","confidence":0.95,"reason":"Cash withdrawal at an ATM"}`},
	}
}

// buildMessages assembles the full conversation for one classification call.
func buildMessages(req Request) ([]chatMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction payload: %w", err)
	}

	messages := []chatMessage{{Role: "system", Content: systemPrompt()}}
	messages = append(messages, exampleMessages()...)
	messages = append(messages, chatMessage{Role: "user", Content: string(payload)})
	return messages, nil
}

// parseVerdict extracts the classification fields from the provider's message
// content. Malformed content yields a zero verdict, never an error: a
// successful call with a bad body soft-fails into defaults downstream.
func parseVerdict(content string) Verdict {
	content = cleanMarkdownWrapper(content)

	var jsonResp struct {
		Category   string   `json:"category"`
		Type       string   `json:"type"`
		Confidence *float64 `json:"confidence"`
		Reason     string   `json:"reason"`
	}
	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return Verdict{}
	}

	return Verdict{
		Category:   jsonResp.Category,
		Type:       jsonResp.Type,
		Confidence: jsonResp.Confidence,
		Reason:     jsonResp.Reason,
	}
}

// cleanMarkdownWrapper strips markdown code fences some models wrap around
// JSON despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
