package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// TestClassify tests the ordered threshold table
func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		highSev    int
		avgRisk    float64
		totalVulns int
		want       types.ThreatLevel
	}{
		{"three high severity is critical", 3, 0, 3, types.ThreatLevelCritical},
		{"avg risk 8 is critical", 0, 8.0, 0, types.ThreatLevelCritical},
		{"avg risk just under 8 with high sev is high", 1, 7.9, 1, types.ThreatLevelHigh},
		{"one high severity is high", 1, 0, 1, types.ThreatLevelHigh},
		{"avg risk 6 is high", 0, 6.0, 0, types.ThreatLevelHigh},
		{"three vulns is medium", 0, 0, 3, types.ThreatLevelMedium},
		{"avg risk 4 is medium", 0, 4.0, 0, types.ThreatLevelMedium},
		{"two low vulns is low", 0, 3.9, 2, types.ThreatLevelLow},
		{"empty aggregate is low", 0, 0, 0, types.ThreatLevelLow},
		// First match wins: many vulns with high severity classify by
		// the stronger rule.
		{"high severity dominates vuln count", 4, 2.0, 10, types.ThreatLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.highSev, tt.avgRisk, tt.totalVulns))
		})
	}
}

// TestAggregate tests report merging
func TestAggregate(t *testing.T) {
	reports := []types.AgentReport{
		{
			Vulnerabilities: []types.Vulnerability{
				{Name: "sqli", Severity: types.SeverityCritical},
				{Name: "xss", Severity: types.SeverityMedium},
			},
			Findings:  []string{"admin panel exposed"},
			RiskScore: 9,
		},
		{
			Vulnerabilities: []types.Vulnerability{
				{Name: "weak tls", Severity: types.SeverityHigh},
			},
			Findings:  []string{"tls 1.0 accepted"},
			RiskScore: 6,
		},
	}

	results := Aggregate(reports, 1)

	assert.Equal(t, 2, results.AgentsSucceeded)
	assert.Equal(t, 1, results.AgentsFailed)
	assert.Equal(t, 3, results.TotalVulnerabilities)
	assert.Equal(t, 2, results.HighSeverityCount)
	assert.InDelta(t, 7.5, results.AvgRiskScore, 0.001)
	assert.Len(t, results.Findings, 2)
}

// TestAggregate_AllFailed tests the zero-success aggregate
func TestAggregate_AllFailed(t *testing.T) {
	results := Aggregate(nil, 4)

	assert.Equal(t, 0, results.AgentsSucceeded)
	assert.Equal(t, 4, results.AgentsFailed)
	assert.Equal(t, 0.0, results.AvgRiskScore)
	assert.Equal(t, types.ThreatLevelLow, ClassifyResults(results))
}
