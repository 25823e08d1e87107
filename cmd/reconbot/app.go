package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/config"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm/providers"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/mitre"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/observability"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/orchestrator"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/planning"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/ratelimit"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/recon"
)

// app holds the wired services behind every subcommand.
type app struct {
	cfg          *config.Config
	db           *database.DB
	logger       *slog.Logger
	scans        database.ScanDAO
	agents       database.AgentDAO
	executions   database.ExecutionDAO
	paths        database.AttackPathDAO
	mappings     database.MitreMappingDAO
	limiter      *ratelimit.Limiter
	orchestrator *orchestrator.Orchestrator
	planner      *planning.Planner
}

// buildApp loads configuration, opens the database, runs migrations,
// and wires the service graph.
func buildApp(ctx context.Context) (*app, error) {
	path := configFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		path = filepath.Join(home, ".reconbot", "config.yaml")
	}

	loader := config.NewConfigLoader(config.NewConfigValidator())
	cfg, err := loader.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger := observability.NewLogger(cfg.Logging, os.Stderr)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		return nil, err
	}

	db, err := database.OpenWithConfig(cfg.Database.ToOpenConfig())
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db).Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		provider, err = providers.NewProvider(cfg.LLM)
		if err != nil {
			logger.Warn("generative provider unavailable, planning will use the fallback catalog", "error", err)
		}
	}

	scans := database.NewScanDAO(db)
	agents := database.NewAgentDAO(db)
	executions := database.NewExecutionDAO(db)
	paths := database.NewAttackPathDAO(db)
	mappings := database.NewMitreMappingDAO(db)

	limiter := ratelimit.NewLimiter(database.NewRateLimitDAO(db), cfg.RateLimits, logger)

	collector := recon.NewCollector(cfg.Recon, logger)

	var intel recon.IntelService
	if cfg.Intel.FeedURL != "" {
		intel = recon.NewIntelClient(cfg.Intel, logger)
	}

	orch := orchestrator.New(scans, executions, provider, collector, intel, cfg.Orchestrator, logger)

	store := mitre.NewStore(mappings, mitre.NewIndex())
	planner := planning.NewPlanner(paths, store, provider, cfg.Planner, logger)

	return &app{
		cfg:          cfg,
		db:           db,
		logger:       logger,
		scans:        scans,
		agents:       agents,
		executions:   executions,
		paths:        paths,
		mappings:     mappings,
		limiter:      limiter,
		orchestrator: orch,
		planner:      planner,
	}, nil
}

// Close releases held resources.
func (a *app) Close() error {
	return a.db.Close()
}
