package llm

import (
	"context"
	"sync"
)

// MockClient is a test double for Client. The zero value returns an empty
// verdict for every call and records requests.
type MockClient struct {
	// ClassifyFunc, when set, handles every call.
	ClassifyFunc func(ctx context.Context, req Request) (Verdict, error)

	mu    sync.Mutex
	calls []Request
}

// Classify records the request and delegates to ClassifyFunc.
func (m *MockClient) Classify(ctx context.Context, req Request) (Verdict, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, req)
	}
	return Verdict{}, nil
}

// Calls returns a copy of the recorded requests.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns how many classification calls were made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
