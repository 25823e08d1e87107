// Package orchestrator fans a scan request out to every active
// analysis agent, tolerates partial failure, aggregates findings, and
// classifies an overall threat level by deterministic rule.
package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/observability"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/recon"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// Config holds orchestrator timing and sampling settings.
type Config struct {
	// TaskTimeout bounds each agent's analysis call so one slow
	// collaborator cannot stall the join barrier
	TaskTimeout time.Duration `mapstructure:"task_timeout"`

	// ReconTimeout bounds the optional context-gathering phase
	ReconTimeout time.Duration `mapstructure:"recon_timeout"`

	// Temperature for analysis calls; low keeps reports parseable
	Temperature float64 `mapstructure:"temperature"`

	// MaxTokens caps each agent response
	MaxTokens int `mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		TaskTimeout:  60 * time.Second,
		ReconTimeout: 15 * time.Second,
		Temperature:  0.2,
		MaxTokens:    2000,
	}
}

// Orchestrator runs scans. Recon and intel collaborators are optional;
// their absence degrades context only.
type Orchestrator struct {
	scans      database.ScanDAO
	executions database.ExecutionDAO
	provider   llm.Provider
	recon      recon.Service
	intel      recon.IntelService
	config     Config
	logger     *slog.Logger
}

// New creates an orchestrator. recon and intel may be nil.
func New(
	scans database.ScanDAO,
	executions database.ExecutionDAO,
	provider llm.Provider,
	reconSvc recon.Service,
	intelSvc recon.IntelService,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = DefaultConfig().TaskTimeout
	}
	if cfg.ReconTimeout <= 0 {
		cfg.ReconTimeout = DefaultConfig().ReconTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		scans:      scans,
		executions: executions,
		provider:   provider,
		recon:      reconSvc,
		intel:      intelSvc,
		config:     cfg,
		logger:     logger,
	}
}

// taskResult carries one agent task's outcome across the join barrier.
type taskResult struct {
	report types.AgentReport
	ok     bool
}

// Run executes a scan of target against every active candidate agent.
// The scan always reaches a terminal status: completed with a
// classified threat level, or failed when the terminal write itself
// fails.
func (o *Orchestrator) Run(ctx context.Context, target string, assetType types.AssetType, candidates []*database.Agent) (*database.Scan, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, types.NewError(types.TARGET_INVALID, "target is required")
	}
	if !assetType.IsValid() {
		return nil, types.NewError(types.VALIDATION_FAILED, "invalid asset type: "+assetType.String())
	}
	if o.provider == nil {
		return nil, types.NewError(types.UPSTREAM_ANALYSIS_FAILED, "no analysis provider configured")
	}

	ctx, span := observability.Tracer().Start(ctx, "orchestrator.Run")
	defer span.End()

	logger := observability.WithTrace(ctx, o.logger).With("target", target)

	scan := &database.Scan{
		Target:    target,
		AssetType: assetType,
		Status:    types.ScanStatusRunning,
	}
	if err := o.scans.Create(ctx, scan); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to create scan", err)
	}

	logger = logger.With("scan_id", scan.ID.String())

	reconCtx := o.gatherContext(ctx, target, logger)

	active := make([]*database.Agent, 0, len(candidates))
	for _, agent := range candidates {
		if agent != nil && agent.IsActive {
			active = append(active, agent)
		}
	}

	logger.Info("dispatching agents", "count", len(active))

	// Fan-out. Tasks share nothing mutable; each writes only its own
	// slot, and the WaitGroup is the single join barrier. A failed
	// task records its own execution failure and never disturbs
	// siblings.
	results := make([]taskResult, len(active))
	var wg sync.WaitGroup
	for i, agent := range active {
		i, agent := i, agent
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = o.runAgent(ctx, scan.ID, agent, target, reconCtx, logger)
		}()
	}
	wg.Wait()

	var reports []types.AgentReport
	failed := 0
	for _, res := range results {
		if res.ok {
			reports = append(reports, res.report)
		} else {
			failed++
		}
	}

	aggregate := Aggregate(reports, failed)
	aggregate.Recon = reconCtx
	level := ClassifyResults(aggregate)

	blob, err := aggregate.Encode()
	if err != nil {
		o.failScan(ctx, scan.ID, err.Error(), logger)
		return nil, types.WrapError(types.DB_UPDATE_FAILED, "failed to encode scan results", err)
	}

	// Single terminal write; the DAO guards it on status=running so it
	// can only ever happen once.
	if err := o.scans.Complete(ctx, scan.ID, blob, level); err != nil {
		o.failScan(ctx, scan.ID, err.Error(), logger)
		return nil, err
	}

	logger.Info("scan completed",
		"threat_level", level.String(),
		"agents_succeeded", len(reports),
		"agents_failed", failed,
	)

	return o.scans.GetByID(ctx, scan.ID)
}

// runAgent executes one agent task end to end. All failure modes are
// contained here: they finalize this task's execution record and
// nothing else.
func (o *Orchestrator) runAgent(ctx context.Context, scanID types.ID, agent *database.Agent, target string, reconCtx *types.ReconContext, logger *slog.Logger) taskResult {
	prompt := BuildAgentPrompt(agent.PromptTemplate, target, reconCtx)

	exec := &database.AgentExecution{
		ScanID:    scanID,
		AgentID:   agent.ID,
		Status:    types.ExecutionStatusRunning,
		InputData: prompt,
	}
	if err := o.executions.Create(ctx, exec); err != nil {
		logger.Error("failed to create agent execution", "agent", agent.Name, "error", err)
		return taskResult{}
	}

	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, o.config.TaskTimeout)
	defer cancel()

	resp, err := o.provider.Complete(callCtx, llm.CompletionRequest{
		System:      analysisSystemPrompt,
		Prompt:      prompt,
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
	})
	elapsed := time.Since(start)

	if err != nil {
		o.failExecution(ctx, exec.ID, agent.Name, err.Error(), elapsed, logger)
		return taskResult{}
	}

	report, err := llm.ExtractJSONAs[types.AgentReport](resp.Content)
	if err != nil {
		o.failExecution(ctx, exec.ID, agent.Name, "malformed agent output: "+err.Error(), elapsed, logger)
		return taskResult{}
	}
	if err := report.Validate(); err != nil {
		o.failExecution(ctx, exec.ID, agent.Name, "invalid agent report: "+err.Error(), elapsed, logger)
		return taskResult{}
	}

	output, err := json.Marshal(report)
	if err != nil {
		o.failExecution(ctx, exec.ID, agent.Name, "failed to encode agent report: "+err.Error(), elapsed, logger)
		return taskResult{}
	}

	if err := o.executions.Complete(ctx, exec.ID, string(output), elapsed); err != nil {
		logger.Error("failed to finalize agent execution", "agent", agent.Name, "error", err)
		return taskResult{}
	}

	return taskResult{report: report, ok: true}
}

// gatherContext collects optional recon and intel context under a
// bounded timeout. Failures degrade to a nil or partial context.
func (o *Orchestrator) gatherContext(ctx context.Context, target string, logger *slog.Logger) *types.ReconContext {
	if o.recon == nil && o.intel == nil {
		return nil
	}

	gatherCtx, cancel := context.WithTimeout(ctx, o.config.ReconTimeout)
	defer cancel()

	var reconCtx *types.ReconContext
	if o.recon != nil {
		rc, err := o.recon.Gather(gatherCtx, target)
		if err != nil {
			logger.Warn("recon gathering failed, continuing without context", "error", err)
		} else {
			reconCtx = rc
		}
	}

	if o.intel != nil {
		intel, err := o.intel.RecentFindings(gatherCtx, target)
		if err != nil {
			logger.Debug("threat intel unavailable", "error", err)
		} else if intel != "" {
			if reconCtx == nil {
				reconCtx = &types.ReconContext{Hostname: target}
			}
			reconCtx.IntelReport = intel
		}
	}

	return reconCtx
}

func (o *Orchestrator) failExecution(ctx context.Context, id types.ID, agentName, message string, elapsed time.Duration, logger *slog.Logger) {
	logger.Warn("agent execution failed", "agent", agentName, "error", message)
	if err := o.executions.Fail(ctx, id, message, elapsed); err != nil {
		logger.Error("failed to record execution failure", "agent", agentName, "error", err)
	}
}

func (o *Orchestrator) failScan(ctx context.Context, id types.ID, message string, logger *slog.Logger) {
	logger.Error("scan failed", "error", message)
	if err := o.scans.MarkFailed(ctx, id, message); err != nil {
		logger.Error("failed to mark scan failed", "error", err)
	}
}
