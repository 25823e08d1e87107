package providers

import (
	"context"
	"sync"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
)

// MockProvider is a configurable in-memory provider used by tests and
// by offline runs. Responses are served in order; the last one repeats.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	index     int

	// Err, when set, fails every call
	Err error

	// Delay simulates provider latency, making timeout paths testable
	Delay time.Duration

	// Calls records every prompt received
	Calls []llm.CompletionRequest
}

// NewMockProvider creates a mock provider with no canned responses.
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{responses: responses}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete serves the next canned response, honoring Delay and Err.
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, req)

	if p.Err != nil {
		return nil, p.Err
	}

	content := ""
	if len(p.responses) > 0 {
		if p.index < len(p.responses) {
			content = p.responses[p.index]
			p.index++
		} else {
			content = p.responses[len(p.responses)-1]
		}
	}

	return &llm.CompletionResponse{
		Content: content,
		Model:   "mock",
	}, nil
}
