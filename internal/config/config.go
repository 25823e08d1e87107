// Package config loads and validates the YAML configuration that wires
// the scan and planning pipelines together.
package config

import (
	"path/filepath"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/observability"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/orchestrator"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/planning"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/ratelimit"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/recon"
)

// Config is the full application configuration.
type Config struct {
	Database     DBConfig                           `mapstructure:"database"`
	LLM          llm.ProviderConfig                 `mapstructure:"llm"`
	Recon        recon.Config                       `mapstructure:"recon"`
	Intel        recon.IntelConfig                  `mapstructure:"intel"`
	Orchestrator orchestrator.Config                `mapstructure:"orchestrator"`
	Planner      planning.Config                    `mapstructure:"planner"`
	RateLimits   map[string]ratelimit.EndpointLimit `mapstructure:"rate_limits"`
	Logging      observability.LogConfig            `mapstructure:"logging"`
}

// DBConfig holds database settings.
type DBConfig struct {
	// Path is the SQLite database file path
	Path string `mapstructure:"path"`

	// MaxConnections caps the connection pool
	MaxConnections int `mapstructure:"max_connections"`

	// BusyTimeout is the SQLite busy handler timeout
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// ToOpenConfig converts to the database layer's open configuration.
func (c DBConfig) ToOpenConfig() database.Config {
	cfg := database.DefaultConfig(c.Path)
	if c.MaxConnections > 0 {
		cfg.MaxOpenConns = c.MaxConnections
	}
	if c.BusyTimeout > 0 {
		cfg.BusyTimeout = c.BusyTimeout
	}
	return cfg
}

// DefaultDatabasePath returns the default database location under the
// given home directory.
func DefaultDatabasePath(homeDir string) string {
	return filepath.Join(homeDir, "reconbot.db")
}
