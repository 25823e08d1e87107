package orchestrator

import (
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// Classify maps a scan aggregate to a threat level. It is a pure
// function of its inputs under fixed ordered thresholds; first match
// wins.
func Classify(highSeverityCount int, avgRiskScore float64, totalVulnerabilities int) types.ThreatLevel {
	switch {
	case highSeverityCount >= 3 || avgRiskScore >= 8:
		return types.ThreatLevelCritical
	case highSeverityCount >= 1 || avgRiskScore >= 6:
		return types.ThreatLevelHigh
	case totalVulnerabilities >= 3 || avgRiskScore >= 4:
		return types.ThreatLevelMedium
	default:
		return types.ThreatLevelLow
	}
}

// Aggregate merges the reports of every successful agent execution.
// With zero successes the aggregate is empty and classifies low.
func Aggregate(reports []types.AgentReport, failedCount int) *types.ScanResults {
	results := &types.ScanResults{
		Vulnerabilities: []types.Vulnerability{},
		Findings:        []string{},
		AgentsSucceeded: len(reports),
		AgentsFailed:    failedCount,
	}

	var riskSum float64
	for _, report := range reports {
		results.Vulnerabilities = append(results.Vulnerabilities, report.Vulnerabilities...)
		results.Findings = append(results.Findings, report.Findings...)
		riskSum += report.RiskScore
	}

	if len(reports) > 0 {
		results.AvgRiskScore = riskSum / float64(len(reports))
	}

	results.TotalVulnerabilities = len(results.Vulnerabilities)
	for _, vuln := range results.Vulnerabilities {
		if vuln.Severity.IsHighOrCritical() {
			results.HighSeverityCount++
		}
	}

	return results
}

// ClassifyResults applies the threshold table to an aggregate.
func ClassifyResults(results *types.ScanResults) types.ThreatLevel {
	return Classify(results.HighSeverityCount, results.AvgRiskScore, results.TotalVulnerabilities)
}
