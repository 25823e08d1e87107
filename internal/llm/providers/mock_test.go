package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
)

// TestMockProvider_ResponseOrder tests canned response sequencing
func TestMockProvider_ResponseOrder(t *testing.T) {
	provider := NewMockProvider("first", "second")
	ctx := context.Background()

	for _, want := range []string{"first", "second", "second"} {
		resp, err := provider.Complete(ctx, llm.CompletionRequest{Prompt: "go"})
		require.NoError(t, err)
		assert.Equal(t, want, resp.Content)
	}

	assert.Len(t, provider.Calls, 3)
}

// TestMockProvider_ContextCancellation tests that Delay honors the
// caller's deadline
func TestMockProvider_ContextCancellation(t *testing.T) {
	provider := NewMockProvider("never delivered")
	provider.Delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := provider.Complete(ctx, llm.CompletionRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestNewProvider tests factory dispatch
func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(llm.ProviderConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", provider.Name())

	_, err = NewProvider(llm.ProviderConfig{Provider: "bedrock"})
	assert.Error(t, err)
}

// TestNewProvider_NilInterfaceOnError tests that a failed construction
// returns a nil interface rather than a typed nil pointer, so callers
// gating on provider == nil see the failure
func TestNewProvider_NilInterfaceOnError(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, name := range []string{"anthropic", "openai"} {
		provider, err := NewProvider(llm.ProviderConfig{Provider: name})
		require.Error(t, err, name)
		if provider != nil {
			t.Errorf("%s: error path returned non-nil interface %T", name, provider)
		}
	}
}
