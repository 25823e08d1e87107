package llm

import (
	"context"
	"time"
)

// Provider is the unified abstraction over generative services. Both
// the per-agent analysis call and the campaign planning call go
// through this interface, so either can be backed by any provider.
type Provider interface {
	// Name returns the provider name (e.g., "anthropic", "openai")
	Name() string

	// Complete sends a completion request and returns the full
	// response. This is a blocking call bounded by the context.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest describes a single completion call.
type CompletionRequest struct {
	// Model overrides the provider's default model when non-empty
	Model string

	// System is the system prompt framing the task
	System string

	// Prompt is the user content
	Prompt string

	// Temperature controls sampling randomness
	Temperature float64

	// MaxTokens caps the response length; 0 uses the provider default
	MaxTokens int
}

// CompletionResponse is the provider-agnostic response shape.
type CompletionResponse struct {
	Content string     `json:"content"`
	Model   string     `json:"model"`
	Usage   TokenUsage `json:"usage"`
}

// TokenUsage tracks token consumption for a single call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig holds provider construction settings.
type ProviderConfig struct {
	// Provider selects the implementation ("anthropic", "openai")
	Provider string `mapstructure:"provider"`

	// APIKey is the provider API key; falls back to the conventional
	// environment variable when empty
	APIKey string `mapstructure:"api_key"`

	// DefaultModel is used when a request carries no model
	DefaultModel string `mapstructure:"model"`

	// Timeout bounds every completion call
	Timeout time.Duration `mapstructure:"timeout"`
}
