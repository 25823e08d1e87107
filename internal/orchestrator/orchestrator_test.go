package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm/providers"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

type testEnv struct {
	db         *database.DB
	scans      database.ScanDAO
	executions database.ExecutionDAO
	agents     []*database.Agent
}

func setupEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, database.NewMigrator(db).Migrate(context.Background()))

	agents, err := database.NewAgentDAO(db).ListActive(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, agents)

	return &testEnv{
		db:         db,
		scans:      database.NewScanDAO(db),
		executions: database.NewExecutionDAO(db),
		agents:     agents,
	}, func() { db.Close() }
}

func newTestOrchestrator(env *testEnv, provider llm.Provider) *Orchestrator {
	return New(env.scans, env.executions, provider, nil, nil, DefaultConfig(), nil)
}

const validHighRiskReport = `{
	"vulnerabilities": [
		{"name": "remote code execution", "severity": "critical", "description": "unauthenticated RCE"},
		{"name": "credential exposure", "severity": "high", "description": "tokens in response"}
	],
	"findings": ["service banner leaks version"],
	"risk_score": 9
}`

// TestOrchestrator_Run_PartialFailure tests that one malformed agent
// response fails only its own task while the scan still completes and
// classifies from the surviving reports
func TestOrchestrator_Run_PartialFailure(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	// Two parseable reports and one response with no JSON at all;
	// whichever agent draws the bad one records a failed execution.
	provider := providers.NewMockProvider(
		validHighRiskReport,
		validHighRiskReport,
		"I could not analyze this target.",
	)

	orch := newTestOrchestrator(env, provider)
	candidates := env.agents[:3]

	scan, err := orch.Run(context.Background(), "example.com", types.AssetTypeDomain, candidates)
	require.NoError(t, err)

	assert.Equal(t, types.ScanStatusCompleted, scan.Status)
	assert.True(t, scan.Status.IsTerminal())

	// Four high/critical vulns across two reports, avg risk 9.
	assert.Equal(t, types.ThreatLevelCritical, scan.ThreatLevel)

	results, err := types.DecodeScanResults(scan.Results)
	require.NoError(t, err)
	assert.Equal(t, 2, results.AgentsSucceeded)
	assert.Equal(t, 1, results.AgentsFailed)
	assert.Equal(t, 4, results.HighSeverityCount)
	assert.InDelta(t, 9.0, results.AvgRiskScore, 0.001)

	execs, err := env.executions.ListByScan(context.Background(), scan.ID)
	require.NoError(t, err)
	require.Len(t, execs, 3)

	completed, failed := 0, 0
	for _, exec := range execs {
		switch exec.Status {
		case types.ExecutionStatusCompleted:
			completed++
			assert.NotEmpty(t, exec.OutputData)
		case types.ExecutionStatusFailed:
			failed++
			assert.NotEmpty(t, exec.ErrorMessage)
		}
	}
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, failed)
}

// TestOrchestrator_Run_AllAgentsFail tests that total agent failure
// still yields a terminal completed scan with an empty low aggregate
func TestOrchestrator_Run_AllAgentsFail(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	provider := providers.NewMockProvider()
	provider.Err = errors.New("provider unreachable")

	orch := newTestOrchestrator(env, provider)

	scan, err := orch.Run(context.Background(), "example.com", types.AssetTypeDomain, env.agents)
	require.NoError(t, err)

	assert.Equal(t, types.ScanStatusCompleted, scan.Status)
	assert.Equal(t, types.ThreatLevelLow, scan.ThreatLevel)

	results, err := types.DecodeScanResults(scan.Results)
	require.NoError(t, err)
	assert.Equal(t, 0, results.AgentsSucceeded)
	assert.Equal(t, len(env.agents), results.AgentsFailed)
}

// TestOrchestrator_Run_TaskTimeout tests that a slow provider trips
// the per-task timeout without hanging the scan
func TestOrchestrator_Run_TaskTimeout(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	provider := providers.NewMockProvider(validHighRiskReport)
	provider.Delay = 200 * time.Millisecond

	cfg := DefaultConfig()
	cfg.TaskTimeout = 20 * time.Millisecond

	orch := New(env.scans, env.executions, provider, nil, nil, cfg, nil)

	scan, err := orch.Run(context.Background(), "example.com", types.AssetTypeDomain, env.agents[:1])
	require.NoError(t, err)

	assert.Equal(t, types.ScanStatusCompleted, scan.Status)
	assert.Equal(t, types.ThreatLevelLow, scan.ThreatLevel)

	execs, err := env.executions.ListByScan(context.Background(), scan.ID)
	require.NoError(t, err)
	require.Len(t, execs, 1)
	assert.Equal(t, types.ExecutionStatusFailed, execs[0].Status)
}

// TestOrchestrator_Run_OutOfRangeRiskScore tests report validation
func TestOrchestrator_Run_OutOfRangeRiskScore(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	provider := providers.NewMockProvider(`{"vulnerabilities": [], "findings": [], "risk_score": 42}`)
	orch := newTestOrchestrator(env, provider)

	scan, err := orch.Run(context.Background(), "example.com", types.AssetTypeDomain, env.agents[:1])
	require.NoError(t, err)

	execs, err := env.executions.ListByScan(context.Background(), scan.ID)
	require.NoError(t, err)
	require.Len(t, execs, 1)
	assert.Equal(t, types.ExecutionStatusFailed, execs[0].Status)
}

// TestOrchestrator_Run_InvalidInput tests target and asset validation
func TestOrchestrator_Run_InvalidInput(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	orch := newTestOrchestrator(env, providers.NewMockProvider())

	_, err := orch.Run(context.Background(), "   ", types.AssetTypeDomain, env.agents)
	assert.True(t, types.IsCode(err, types.TARGET_INVALID))

	_, err = orch.Run(context.Background(), "example.com", types.AssetType("subnet"), env.agents)
	assert.True(t, types.IsCode(err, types.VALIDATION_FAILED))
}

// TestOrchestrator_Run_NoProvider tests that a missing analysis
// provider fails fast instead of dispatching agents against nothing
func TestOrchestrator_Run_NoProvider(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	orch := newTestOrchestrator(env, nil)

	_, err := orch.Run(context.Background(), "example.com", types.AssetTypeDomain, env.agents)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.UPSTREAM_ANALYSIS_FAILED))

	// Nothing was persisted; the guard runs before scan creation.
	scans, err := env.scans.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, scans)
}

// TestOrchestrator_Run_SkipsInactiveAgents tests candidate filtering
func TestOrchestrator_Run_SkipsInactiveAgents(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	inactive := *env.agents[0]
	inactive.IsActive = false

	provider := providers.NewMockProvider(`{"vulnerabilities": [], "findings": [], "risk_score": 1}`)
	orch := newTestOrchestrator(env, provider)

	scan, err := orch.Run(context.Background(), "example.com", types.AssetTypeDomain,
		[]*database.Agent{&inactive, env.agents[1], nil})
	require.NoError(t, err)

	execs, err := env.executions.ListByScan(context.Background(), scan.ID)
	require.NoError(t, err)
	assert.Len(t, execs, 1, "only the active agent should have been dispatched")
}
