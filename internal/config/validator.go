package config

import (
	"fmt"
	"strings"
)

// ConfigValidator validates configuration values.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// configValidator implements ConfigValidator.
type configValidator struct{}

// NewConfigValidator creates a new ConfigValidator instance.
func NewConfigValidator() ConfigValidator {
	return &configValidator{}
}

// Validate checks the configuration for invalid values and returns an
// error naming every problem found.
func (v *configValidator) Validate(cfg *Config) error {
	var problems []string

	if strings.TrimSpace(cfg.Database.Path) == "" {
		problems = append(problems, "database.path must not be empty")
	}
	if cfg.Database.MaxConnections < 0 {
		problems = append(problems, "database.max_connections must not be negative")
	}

	switch cfg.LLM.Provider {
	case "", "anthropic", "openai", "mock":
	default:
		problems = append(problems, fmt.Sprintf("llm.provider %q is not supported", cfg.LLM.Provider))
	}
	if cfg.LLM.Timeout < 0 {
		problems = append(problems, "llm.timeout must not be negative")
	}

	if cfg.Orchestrator.TaskTimeout < 0 {
		problems = append(problems, "orchestrator.task_timeout must not be negative")
	}
	if cfg.Orchestrator.Temperature < 0 || cfg.Orchestrator.Temperature > 2 {
		problems = append(problems, "orchestrator.temperature must be in [0, 2]")
	}

	if cfg.Planner.Temperature < 0 || cfg.Planner.Temperature > 2 {
		problems = append(problems, "planner.temperature must be in [0, 2]")
	}

	for endpoint, limit := range cfg.RateLimits {
		if limit.MaxRequests < 0 {
			problems = append(problems, fmt.Sprintf("rate_limits.%s.max_requests must not be negative", endpoint))
		}
		if limit.MaxRequests > 0 && limit.WindowMinutes <= 0 {
			problems = append(problems, fmt.Sprintf("rate_limits.%s.window_minutes must be positive", endpoint))
		}
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not supported", cfg.Logging.Level))
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported", cfg.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
