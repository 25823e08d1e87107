// Package planning turns completed scan findings into an ordered,
// risk-scored attack plan. A generative pass is attempted first; any
// failure there, from transport errors to a single malformed step,
// routes the run through the deterministic service catalog instead, so
// planning degrades rather than fails when the provider misbehaves.
package planning

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/mitre"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/observability"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// recommendThreshold is the minimum risk score for a step to be
// flagged as a recommended starting point.
const recommendThreshold = 400.0

// maxRecommended caps how many steps are flagged per run.
const maxRecommended = 2

// Config holds planner tuning.
type Config struct {
	// Model overrides the provider default when non-empty
	Model string `mapstructure:"model"`

	// Temperature for the generative call
	Temperature float64 `mapstructure:"temperature"`

	// MaxTokens caps the generated plan size
	MaxTokens int `mapstructure:"max_tokens"`

	// Timeout bounds the generative call; the fallback path is not
	// subject to it
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns planner defaults.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.3,
		MaxTokens:   4000,
		Timeout:     90 * time.Second,
	}
}

// Planner produces and persists attack plans for campaigns.
type Planner struct {
	paths    database.AttackPathDAO
	mappings *mitre.Store
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// NewPlanner creates a planner. provider may be nil, in which case
// every run uses the fallback catalog directly.
func NewPlanner(paths database.AttackPathDAO, mappings *mitre.Store, provider llm.Provider, config Config, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Planner{
		paths:    paths,
		mappings: mappings,
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// Result reports one planning run.
type Result struct {
	PlanningRunID types.ID
	State         PlanState
	Source        database.PathSource
	Paths         []*database.AttackPath
}

// Plan generates, validates, and persists an attack plan for the given
// campaign from its completed scans. The returned paths are in display
// order (descending risk score); execution_order preserves the
// dependency ordering of the plan itself.
func (p *Planner) Plan(ctx context.Context, campaignID types.ID, scans []*database.Scan) (*Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "planning.Plan",
		trace.WithAttributes(attribute.String("campaign.id", campaignID.String())))
	defer span.End()

	if campaignID.IsZero() {
		return nil, WrapPlanningError(ErrorTypeValidation, "campaign id is required",
			types.NewError(types.CAMPAIGN_ID_MISSING, "planning requires a campaign id"))
	}
	if len(scans) == 0 {
		return nil, NewPlanningError(ErrorTypeValidation, "no completed scans to plan from")
	}

	summaries := make([]ScanSummary, 0, len(scans))
	for _, scan := range scans {
		summaries = append(summaries, Summarize(scan))
	}

	logger := p.logger.With("campaign_id", campaignID)
	runID := types.NewID()
	source := database.PathSourceGenerator

	state := StateGenerating
	logger.Debug("planning state changed", "state", state)
	steps, err := p.generate(ctx, summaries)
	if err != nil {
		logger.Warn("plan generation failed, using fallback catalog", "error", err)
		state = StateFallbackGenerating
		logger.Debug("planning state changed", "state", state)
		source = database.PathSourceFallback
		steps = FallbackPlan(summaries)
	}

	if len(steps) == 0 {
		return nil, WrapPlanningError(ErrorTypeEmptyPlan, "no attack steps produced",
			types.NewError(types.PLANNING_EMPTY_RESULT, "both planning paths returned zero steps"))
	}

	paths := p.finalize(steps, campaignID, runID, source)

	if err := p.paths.CreateBatch(ctx, paths); err != nil {
		return nil, WrapPlanningError(ErrorTypePersistence, "failed to persist attack plan", err)
	}
	state = StatePersisted

	p.recordMappings(ctx, steps, source, logger)

	// Display order: highest risk first. Persisted execution_order is
	// untouched by this sort.
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].RiskScore > paths[j].RiskScore
	})

	logger.Info("attack plan persisted",
		"planning_run_id", runID,
		"source", source,
		"steps", len(paths))

	return &Result{
		PlanningRunID: runID,
		State:         state,
		Source:        source,
		Paths:         paths,
	}, nil
}

// generate runs the generative pass and validates its output. Any
// error here, including a single invalid step, means the caller falls
// back to the catalog.
func (p *Planner) generate(ctx context.Context, summaries []ScanSummary) ([]Step, error) {
	if p.provider == nil {
		return nil, NewPlanningError(ErrorTypeGeneration, "no generative provider configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		Model:       p.config.Model,
		System:      planningSystemPrompt,
		Prompt:      buildPlanPrompt(summaries),
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "completion call failed", err)
	}

	// Generators do not always honor the bare-array instruction; the
	// extractor also accepts the common envelope shapes.
	raws, err := llm.ExtractJSONList[rawStep](resp.Content, "steps", "attack_paths")
	if err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "response carries no usable step list", err)
	}

	// Generated steps are attributed to the scan that anchored the
	// prompt; multi-scan attribution would need the generator to echo
	// scan ids back, which it cannot do reliably.
	steps, err := normalizeSteps(raws, summaries[0].ScanID)
	if err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "generated plan failed validation", err)
	}

	return steps, nil
}

// finalize assigns campaign-wide execution order, converts steps to
// persistence records, and flags the recommended entry points.
func (p *Planner) finalize(steps []Step, campaignID, runID types.ID, source database.PathSource) []*database.AttackPath {
	// Re-sequence: orders out of generation or concatenation may
	// repeat; persisted orders are unique and dense.
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	for i := range steps {
		steps[i].Order = i + 1
	}

	paths := make([]*database.AttackPath, len(steps))
	for i := range steps {
		paths[i] = steps[i].toAttackPath(campaignID, runID, source)
	}

	p.markRecommended(paths)
	return paths
}

// markRecommended flags the top scoring steps above the recommendation
// threshold.
func (p *Planner) markRecommended(paths []*database.AttackPath) {
	byScore := make([]*database.AttackPath, len(paths))
	copy(byScore, paths)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].RiskScore > byScore[j].RiskScore
	})

	flagged := 0
	for _, path := range byScore {
		if flagged >= maxRecommended || path.RiskScore <= recommendThreshold {
			break
		}
		path.Recommended = true
		flagged++
	}
}

// recordMappings writes one technique mapping per step. Mapping
// failures are logged but never fail a persisted plan.
func (p *Planner) recordMappings(ctx context.Context, steps []Step, source database.PathSource, logger *slog.Logger) {
	if p.mappings == nil {
		return
	}

	confidence := mitre.GeneratorConfidence
	reasoning := "technique selected by the generative planner from scan findings"
	if source == database.PathSourceFallback {
		confidence = mitre.FallbackConfidence
		reasoning = "technique selected by the deterministic service catalog"
	}

	for _, step := range steps {
		tacticName := p.mappings.Index().TacticName(step.MitreTactic)
		err := p.mappings.Record(ctx, step.ScanID, step.MitreTechnique, step.TechniqueName, tacticName, confidence, reasoning)
		if err != nil {
			logger.Warn("failed to record technique mapping",
				"technique", step.MitreTechnique,
				"error", err)
		}
	}
}

// ListByCampaign returns a campaign's persisted plan in display order.
func (p *Planner) ListByCampaign(ctx context.Context, campaignID types.ID) ([]*database.AttackPath, error) {
	if campaignID.IsZero() {
		return nil, WrapPlanningError(ErrorTypeValidation, "campaign id is required",
			types.NewError(types.CAMPAIGN_ID_MISSING, "listing requires a campaign id"))
	}
	return p.paths.ListByCampaign(ctx, campaignID)
}
