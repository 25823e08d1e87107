package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

func indexOfStep(steps []Step, name string) int {
	for i, step := range steps {
		if step.TechniqueName == name {
			return i
		}
	}
	return -1
}

// TestFallbackPlan_SSHOnly tests that an SSH-only host yields the SSH
// sub-sequence with enumeration before exploitation
func TestFallbackPlan_SSHOnly(t *testing.T) {
	scanID := types.NewID()
	steps := FallbackPlan([]ScanSummary{
		{ScanID: scanID, Target: "10.0.0.5", OpenPorts: []int{22}},
	})

	require.Len(t, steps, 2)

	enum := indexOfStep(steps, "SSH Service Enumeration")
	brute := indexOfStep(steps, "SSH Credential Brute Force")
	require.NotEqual(t, -1, enum)
	require.NotEqual(t, -1, brute)
	assert.Less(t, enum, brute, "enumeration must precede brute force")

	// The exploitation step names its reconnaissance step as
	// prerequisite.
	assert.Contains(t, steps[brute].Prerequisites, "SSH Service Enumeration")
	assert.Empty(t, steps[enum].Prerequisites)

	for _, step := range steps {
		assert.Equal(t, scanID, step.ScanID)
		assert.Contains(t, step.Description, "10.0.0.5")
	}
}

// TestFallbackPlan_WebAndSSH tests multi-service matching
func TestFallbackPlan_WebAndSSH(t *testing.T) {
	steps := FallbackPlan([]ScanSummary{
		{ScanID: types.NewID(), Target: "example.com", OpenPorts: []int{80, 443, 22}},
	})

	require.Len(t, steps, 4)

	assert.NotEqual(t, -1, indexOfStep(steps, "Web Application Reconnaissance"))
	assert.NotEqual(t, -1, indexOfStep(steps, "Web Application Exploitation"))
	assert.NotEqual(t, -1, indexOfStep(steps, "SSH Service Enumeration"))
	assert.NotEqual(t, -1, indexOfStep(steps, "SSH Credential Brute Force"))

	// Orders are dense, unique, and strictly increasing.
	for i, step := range steps {
		assert.Equal(t, i+1, step.Order)
	}
}

// TestFallbackPlan_NoMatch tests the default reconnaissance step
func TestFallbackPlan_NoMatch(t *testing.T) {
	steps := FallbackPlan([]ScanSummary{
		{ScanID: types.NewID(), Target: "198.51.100.7", OpenPorts: []int{5432}},
	})

	require.Len(t, steps, 1)
	assert.Equal(t, "Network Reconnaissance", steps[0].TechniqueName)
	assert.Equal(t, types.PhaseReconnaissance, steps[0].Phase)
}

// TestFallbackPlan_ServiceNameMatch tests matching on service labels
// when ports are absent
func TestFallbackPlan_ServiceNameMatch(t *testing.T) {
	steps := FallbackPlan([]ScanSummary{
		{ScanID: types.NewID(), Target: "example.com", Services: []string{"smb"}},
	})

	require.Len(t, steps, 2)
	assert.Equal(t, "SMB Share Enumeration", steps[0].TechniqueName)
	assert.Equal(t, "SMB Remote Exploitation", steps[1].TechniqueName)
}

// TestFallbackPlan_MultipleScans tests concatenation across scans
func TestFallbackPlan_MultipleScans(t *testing.T) {
	first := types.NewID()
	second := types.NewID()

	steps := FallbackPlan([]ScanSummary{
		{ScanID: first, Target: "a.example.com", OpenPorts: []int{80}},
		{ScanID: second, Target: "b.example.com", OpenPorts: []int{21}},
	})

	require.Len(t, steps, 4)
	assert.Equal(t, first, steps[0].ScanID)
	assert.Equal(t, second, steps[2].ScanID)

	seen := map[int]bool{}
	for _, step := range steps {
		assert.False(t, seen[step.Order], "duplicate order %d", step.Order)
		seen[step.Order] = true
	}
}

// TestFallbackPlan_RiskScoreInvariant tests that every catalog step's
// composite score is the product of its clamped components
func TestFallbackPlan_RiskScoreInvariant(t *testing.T) {
	steps := FallbackPlan([]ScanSummary{
		{ScanID: types.NewID(), Target: "example.com", OpenPorts: []int{22, 80, 139, 21}},
	})

	require.NotEmpty(t, steps)
	for _, step := range steps {
		assert.GreaterOrEqual(t, step.Exploitability, 1.0)
		assert.LessOrEqual(t, step.Exploitability, 10.0)
		assert.GreaterOrEqual(t, step.Impact, 1.0)
		assert.LessOrEqual(t, step.Impact, 10.0)
		assert.GreaterOrEqual(t, step.Stealth, 1.0)
		assert.LessOrEqual(t, step.Stealth, 10.0)

		assert.InDelta(t, step.Exploitability*step.Impact*step.Stealth, step.RiskScore, 0.001)
		assert.GreaterOrEqual(t, step.RiskScore, 1.0)
		assert.LessOrEqual(t, step.RiskScore, 1000.0)
		assert.True(t, step.RiskLevel.IsValid())
	}
}
