package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/observability"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/orchestrator"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/planning"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/ratelimit"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/recon"
)

// DefaultConfig returns a Config with sensible default values. The
// LLM provider defaults to anthropic with the API key taken from the
// environment at client construction time.
func DefaultConfig() *Config {
	homeDir := getDefaultHomeDir()

	cfg := &Config{
		Database: DBConfig{
			Path:           DefaultDatabasePath(homeDir),
			MaxConnections: 10,
			BusyTimeout:    5 * time.Second,
		},
		Recon:        recon.DefaultConfig(),
		Orchestrator: orchestrator.DefaultConfig(),
		Planner:      planning.DefaultConfig(),
		RateLimits: map[string]ratelimit.EndpointLimit{
			"scan": {MaxRequests: 10, WindowMinutes: 60},
			"plan": {MaxRequests: 20, WindowMinutes: 60},
		},
		Logging: observability.LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	cfg.LLM.Provider = "anthropic"
	cfg.LLM.Timeout = 2 * time.Minute

	return cfg
}

// getDefaultHomeDir returns the default application home directory,
// falling back to a temporary directory when the user home cannot be
// determined.
func getDefaultHomeDir() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".reconbot")
	}
	return filepath.Join(userHome, ".reconbot")
}
