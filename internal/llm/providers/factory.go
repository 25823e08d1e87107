package providers

import (
	"fmt"
	"strings"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
)

// NewProvider constructs a provider from configuration. On error the
// returned interface is nil, never a typed nil pointer, so callers can
// safely gate on provider == nil.
func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		p, err := NewAnthropicProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
