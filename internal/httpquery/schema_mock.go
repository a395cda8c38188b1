package httpquery

import (
	"context"
	"sync"
)

// MockSchema is a test ExecutableSchema with a pluggable execute function.
// It records every request it receives, in call order.
type MockSchema struct {
	ExecuteFunc func(ctx context.Context, req ExecutionRequest) *Result

	mu    sync.Mutex
	calls []ExecutionRequest
}

// NewMockSchema returns a mock that answers with fn, or with an empty
// successful result when fn is nil.
func NewMockSchema(fn func(ctx context.Context, req ExecutionRequest) *Result) *MockSchema {
	return &MockSchema{ExecuteFunc: fn}
}

func (m *MockSchema) Execute(ctx context.Context, req ExecutionRequest) *Result {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return &Result{Data: map[string]any{}}
}

// Calls returns the requests received so far.
func (m *MockSchema) Calls() []ExecutionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutionRequest(nil), m.calls...)
}
