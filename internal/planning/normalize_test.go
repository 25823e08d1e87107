package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

// TestNormalizeStep tests untrusted step normalization
func TestNormalizeStep(t *testing.T) {
	scanID := types.NewID()

	t.Run("complete step passes through", func(t *testing.T) {
		step, err := normalizeStep(rawStep{
			Phase:          "exploitation",
			MitreTactic:    "TA0001",
			MitreTechnique: "T1190",
			TechniqueName:  "Exploit Public-Facing Application",
			RiskLevel:      "high",
			Exploitability: f(8),
			Impact:         f(9),
			Stealth:        f(6),
			RiskScore:      f(432),
			ExecutionOrder: n(2),
		}, 0, scanID)
		require.NoError(t, err)

		assert.Equal(t, types.PhaseExploitation, step.Phase)
		assert.Equal(t, types.RiskLevelHigh, step.RiskLevel)
		assert.Equal(t, 432.0, step.RiskScore)
		assert.Equal(t, 2, step.Order)
		assert.Equal(t, scanID, step.ScanID)
	})

	t.Run("neither name nor technique id fails", func(t *testing.T) {
		_, err := normalizeStep(rawStep{Description: "something"}, 3, scanID)
		assert.Error(t, err)
	})

	t.Run("technique id substitutes for missing name", func(t *testing.T) {
		step, err := normalizeStep(rawStep{MitreTechnique: "T1046"}, 0, scanID)
		require.NoError(t, err)
		assert.Equal(t, "T1046", step.TechniqueName)
	})

	t.Run("missing components default to neutral", func(t *testing.T) {
		step, err := normalizeStep(rawStep{TechniqueName: "Active Scanning"}, 0, scanID)
		require.NoError(t, err)
		assert.Equal(t, neutralComponent, step.Exploitability)
		assert.Equal(t, neutralComponent, step.Impact)
		assert.Equal(t, neutralComponent, step.Stealth)
		assert.Equal(t, 125.0, step.RiskScore)
	})

	t.Run("components clamp into range", func(t *testing.T) {
		step, err := normalizeStep(rawStep{
			TechniqueName:  "Active Scanning",
			Exploitability: f(15),
			Impact:         f(-2),
			Stealth:        f(0.5),
		}, 0, scanID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, step.Exploitability)
		assert.Equal(t, 1.0, step.Impact)
		assert.Equal(t, 1.0, step.Stealth)
		assert.Equal(t, 10.0, step.RiskScore)
	})

	t.Run("out-of-range risk score is rederived", func(t *testing.T) {
		step, err := normalizeStep(rawStep{
			TechniqueName:  "Active Scanning",
			Exploitability: f(4),
			Impact:         f(5),
			Stealth:        f(5),
			RiskScore:      f(9000),
		}, 0, scanID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, step.RiskScore)
	})

	t.Run("missing risk level derives from score", func(t *testing.T) {
		step, err := normalizeStep(rawStep{
			TechniqueName:  "Active Scanning",
			Exploitability: f(9),
			Impact:         f(9),
			Stealth:        f(9),
		}, 0, scanID)
		require.NoError(t, err)
		assert.Equal(t, types.RiskLevelCritical, step.RiskLevel)
	})

	t.Run("unknown phase defaults to reconnaissance", func(t *testing.T) {
		step, err := normalizeStep(rawStep{
			TechniqueName: "Active Scanning",
			Phase:         "pre-attack",
		}, 0, scanID)
		require.NoError(t, err)
		assert.Equal(t, types.PhaseReconnaissance, step.Phase)
	})

	t.Run("missing order falls back to position", func(t *testing.T) {
		step, err := normalizeStep(rawStep{TechniqueName: "Active Scanning"}, 4, scanID)
		require.NoError(t, err)
		assert.Equal(t, 5, step.Order)
	})
}

// TestDeriveRiskLevel tests the score-to-label thresholds
func TestDeriveRiskLevel(t *testing.T) {
	assert.Equal(t, types.RiskLevelCritical, deriveRiskLevel(500))
	assert.Equal(t, types.RiskLevelHigh, deriveRiskLevel(499))
	assert.Equal(t, types.RiskLevelHigh, deriveRiskLevel(250))
	assert.Equal(t, types.RiskLevelMedium, deriveRiskLevel(249))
	assert.Equal(t, types.RiskLevelMedium, deriveRiskLevel(100))
	assert.Equal(t, types.RiskLevelLow, deriveRiskLevel(99))
	assert.Equal(t, types.RiskLevelLow, deriveRiskLevel(1))
}

// TestNormalizeSteps tests the all-or-nothing validation of a
// generated array
func TestNormalizeSteps(t *testing.T) {
	scanID := types.NewID()

	t.Run("empty array fails", func(t *testing.T) {
		_, err := normalizeSteps(nil, scanID)
		assert.Error(t, err)
	})

	t.Run("one bad step invalidates the whole plan", func(t *testing.T) {
		_, err := normalizeSteps([]rawStep{
			{TechniqueName: "Active Scanning"},
			{Description: "no name, no id"},
		}, scanID)
		assert.Error(t, err)
	})

	t.Run("valid array normalizes", func(t *testing.T) {
		steps, err := normalizeSteps([]rawStep{
			{TechniqueName: "Active Scanning"},
			{TechniqueName: "Brute Force", MitreTechnique: "T1110"},
		}, scanID)
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, 1, steps[0].Order)
		assert.Equal(t, 2, steps[1].Order)
	})
}
