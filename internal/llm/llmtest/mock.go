// Package llmtest provides an llm.Client test double.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/gift-finder/internal/llm"
)

// Call records one generation request.
type Call struct {
	Prompt  string
	Tier    llm.ModelTier
	JSON    bool
	Options llm.CallOptions
}

// MockClient implements llm.Client with overridable behavior and call recording.
type MockClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

	mu    sync.Mutex
	calls []Call
}

// GenerateContent records the call and delegates to GenerateContentFunc.
func (m *MockClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	m.record(Call{Prompt: prompt, Tier: tier, Options: llm.ResolveOptions(opts)})
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

// GenerateJSON records the call and delegates to GenerateJSONFunc.
func (m *MockClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	m.record(Call{Prompt: prompt, Tier: tier, JSON: true, Options: llm.ResolveOptions(opts)})
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

// GetModel returns a fixed model name.
func (m *MockClient) GetModel(llm.ModelTier) string {
	return "mock-model"
}

// Close is a no-op.
func (m *MockClient) Close() error {
	return nil
}

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// LastCall returns the most recent call. It panics if there were none.
func (m *MockClient) LastCall() Call {
	calls := m.Calls()
	return calls[len(calls)-1]
}

func (m *MockClient) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}
