package planning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/llm/providers"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/mitre"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

type plannerEnv struct {
	db       *database.DB
	paths    database.AttackPathDAO
	mappings database.MitreMappingDAO
	store    *mitre.Store
}

func setupPlannerEnv(t *testing.T) (*plannerEnv, func()) {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, database.NewMigrator(db).Migrate(context.Background()))

	mappings := database.NewMitreMappingDAO(db)
	return &plannerEnv{
		db:       db,
		paths:    database.NewAttackPathDAO(db),
		mappings: mappings,
		store:    mitre.NewStore(mappings, mitre.NewIndex()),
	}, func() { db.Close() }
}

func (e *plannerEnv) newPlanner(provider llm.Provider) *Planner {
	return NewPlanner(e.paths, e.store, provider, DefaultConfig(), nil)
}

// completedScan builds a completed scan whose results blob carries the
// given open ports.
func completedScan(t *testing.T, target string, ports ...int) *database.Scan {
	t.Helper()

	portInfo := make([]types.PortInfo, len(ports))
	for i, port := range ports {
		portInfo[i] = types.PortInfo{Port: port}
	}

	results := &types.ScanResults{
		Recon: &types.ReconContext{Hostname: target, Ports: portInfo},
	}
	blob, err := results.Encode()
	require.NoError(t, err)

	return &database.Scan{
		ID:          types.NewID(),
		Target:      target,
		AssetType:   types.AssetTypeDomain,
		Status:      types.ScanStatusCompleted,
		ThreatLevel: types.ThreatLevelMedium,
		Results:     blob,
	}
}

const generatedPlanJSON = `[
	{
		"phase": "reconnaissance",
		"mitre_tactic": "TA0043",
		"mitre_technique": "T1595",
		"technique_name": "Active Scanning",
		"description": "Sweep the exposed surface.",
		"exploitability": 6,
		"impact": 3,
		"stealth": 8,
		"tools_required": ["nmap"],
		"execution_order": 1
	},
	{
		"phase": "exploitation",
		"mitre_tactic": "TA0001",
		"mitre_technique": "T1190",
		"technique_name": "Exploit Public-Facing Application",
		"description": "Exploit the mapped web surface.",
		"exploitability": 8,
		"impact": 9,
		"stealth": 7,
		"prerequisites": ["Active Scanning"],
		"execution_order": 2
	}
]`

// TestPlanner_Plan_GeneratorPath tests the happy path through the
// generative planner
func TestPlanner_Plan_GeneratorPath(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(providers.NewMockProvider(generatedPlanJSON))

	campaignID := types.NewID()
	scan := completedScan(t, "example.com", 80, 443)
	require.NoError(t, database.NewScanDAO(env.db).Create(context.Background(), scan))

	result, err := planner.Plan(context.Background(), campaignID, []*database.Scan{scan})
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, result.State)
	assert.Equal(t, database.PathSourceGenerator, result.Source)
	require.Len(t, result.Paths, 2)

	// Display order is highest risk first.
	assert.Equal(t, "T1190", result.Paths[0].MitreTechnique)
	assert.Equal(t, 504.0, result.Paths[0].RiskScore)
	assert.Equal(t, types.RiskLevelCritical, result.Paths[0].RiskLevel)
	assert.Contains(t, result.Paths[0].Prerequisites, "Active Scanning")

	// Execution order preserves dependency order regardless of display.
	assert.Equal(t, 2, result.Paths[0].ExecutionOrder)
	assert.Equal(t, 1, result.Paths[1].ExecutionOrder)

	// The plan is persisted and retrievable.
	listed, err := planner.ListByCampaign(context.Background(), campaignID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	// One mapping per step, at generator confidence.
	mappings, err := env.mappings.ListByScan(context.Background(), scan.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	for _, mapping := range mappings {
		assert.Equal(t, mitre.GeneratorConfidence, mapping.ConfidenceScore)
		assert.True(t, mapping.Automated)
	}
}

// TestPlanner_Plan_EnvelopedResponse tests that a generator wrapping
// the step array in an object still takes the generator path
func TestPlanner_Plan_EnvelopedResponse(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(providers.NewMockProvider(
		"```json\n{\"steps\": " + generatedPlanJSON + "}\n```"))

	result, err := planner.Plan(context.Background(), types.NewID(),
		[]*database.Scan{completedScan(t, "example.com", 80, 443)})
	require.NoError(t, err)

	assert.Equal(t, database.PathSourceGenerator, result.Source)
	require.Len(t, result.Paths, 2)
}

// TestPlanner_Plan_FallbackOnMalformedResponse tests that unparseable
// generator output degrades to the catalog instead of failing
func TestPlanner_Plan_FallbackOnMalformedResponse(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(providers.NewMockProvider("I cannot produce a plan right now."))

	campaignID := types.NewID()
	scan := completedScan(t, "example.com", 22)
	require.NoError(t, database.NewScanDAO(env.db).Create(context.Background(), scan))

	result, err := planner.Plan(context.Background(), campaignID, []*database.Scan{scan})
	require.NoError(t, err, "fallback must absorb generator failure")

	assert.Equal(t, database.PathSourceFallback, result.Source)
	require.Len(t, result.Paths, 2)

	mappings, err := env.mappings.ListByScan(context.Background(), scan.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	for _, mapping := range mappings {
		assert.Equal(t, mitre.FallbackConfidence, mapping.ConfidenceScore)
	}
}

// TestPlanner_Plan_FallbackOnInvalidStep tests that a single invalid
// generated step discards the whole generation
func TestPlanner_Plan_FallbackOnInvalidStep(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	// Second step carries neither technique name nor ID.
	planner := env.newPlanner(providers.NewMockProvider(
		`[{"technique_name": "Active Scanning"}, {"description": "mystery step"}]`))

	result, err := planner.Plan(context.Background(), types.NewID(),
		[]*database.Scan{completedScan(t, "example.com", 80)})
	require.NoError(t, err)

	assert.Equal(t, database.PathSourceFallback, result.Source)
}

// TestPlanner_Plan_FallbackOnProviderError tests transport failure
func TestPlanner_Plan_FallbackOnProviderError(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	provider := providers.NewMockProvider()
	provider.Err = errors.New("connection reset")

	planner := env.newPlanner(provider)

	result, err := planner.Plan(context.Background(), types.NewID(),
		[]*database.Scan{completedScan(t, "example.com", 445)})
	require.NoError(t, err)
	assert.Equal(t, database.PathSourceFallback, result.Source)
	assert.NotEmpty(t, result.Paths)
}

// TestPlanner_Plan_NilProvider tests planning without any provider
func TestPlanner_Plan_NilProvider(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(nil)

	result, err := planner.Plan(context.Background(), types.NewID(),
		[]*database.Scan{completedScan(t, "example.com")})
	require.NoError(t, err)

	assert.Equal(t, database.PathSourceFallback, result.Source)
	require.Len(t, result.Paths, 1)
	assert.Equal(t, "Network Reconnaissance", result.Paths[0].TechniqueName)
}

// TestPlanner_Plan_Recommended tests the entry point flags
func TestPlanner_Plan_Recommended(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(nil)

	// Web and SMB exploitation both score 432; the recon steps score
	// far below the recommendation threshold.
	result, err := planner.Plan(context.Background(), types.NewID(),
		[]*database.Scan{completedScan(t, "example.com", 443, 445)})
	require.NoError(t, err)
	require.Len(t, result.Paths, 4)

	var recommended []string
	for _, path := range result.Paths {
		if path.Recommended {
			recommended = append(recommended, path.TechniqueName)
			assert.Greater(t, path.RiskScore, 400.0)
		}
	}
	assert.Len(t, recommended, 2)
	assert.ElementsMatch(t, recommended,
		[]string{"Web Application Exploitation", "SMB Remote Exploitation"})
}

// TestPlanner_Plan_UniqueExecutionOrders tests the campaign-wide order
// invariant across multiple scans
func TestPlanner_Plan_UniqueExecutionOrders(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(nil)

	result, err := planner.Plan(context.Background(), types.NewID(), []*database.Scan{
		completedScan(t, "a.example.com", 80, 22),
		completedScan(t, "b.example.com", 21),
	})
	require.NoError(t, err)
	require.Len(t, result.Paths, 6)

	seen := map[int]bool{}
	for _, path := range result.Paths {
		assert.False(t, seen[path.ExecutionOrder], "duplicate execution order %d", path.ExecutionOrder)
		seen[path.ExecutionOrder] = true
		assert.GreaterOrEqual(t, path.ExecutionOrder, 1)
		assert.LessOrEqual(t, path.ExecutionOrder, 6)
	}
}

// TestPlanner_Plan_Validation tests caller input checks
func TestPlanner_Plan_Validation(t *testing.T) {
	env, cleanup := setupPlannerEnv(t)
	defer cleanup()

	planner := env.newPlanner(nil)
	ctx := context.Background()

	_, err := planner.Plan(ctx, "", []*database.Scan{completedScan(t, "example.com")})
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeValidation))
	assert.True(t, types.IsCode(err, types.CAMPAIGN_ID_MISSING))

	_, err = planner.Plan(ctx, types.NewID(), nil)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeValidation))
}
