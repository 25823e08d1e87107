package planning

import (
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// PlanState tracks a planning run through its state machine:
// AwaitingInput -> Generating -> Validating ->
// {Persisted | FallbackGenerating -> Persisted} | Failed.
type PlanState string

const (
	StateAwaitingInput      PlanState = "awaiting_input"
	StateGenerating         PlanState = "generating"
	StateValidating         PlanState = "validating"
	StateFallbackGenerating PlanState = "fallback_generating"
	StatePersisted          PlanState = "persisted"
	StateFailed             PlanState = "failed"
)

// Step is one normalized attack step before persistence. Risk
// components are each in [1,10]; RiskScore is their product, so it
// falls in [1,1000].
type Step struct {
	Phase           types.KillChainPhase
	MitreTactic     string // tactic ID, e.g. "TA0043"
	MitreTechnique  string // technique ID, e.g. "T1595"
	TechniqueName   string
	Description     string
	RiskLevel       types.RiskLevel
	Exploitability  float64
	Impact          float64
	Stealth         float64
	RiskScore       float64
	ToolsRequired   []string
	ToolChain       []string
	FallbackTools   []string
	Prerequisites   []string
	ExpectedOutcome string
	Order           int
	ScanID          types.ID // scan whose findings motivated this step
}

// neutralComponent fills a missing risk component.
const neutralComponent = 5.0

// clampComponent forces a risk component into the valid [1,10] range.
func clampComponent(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// deriveRiskLevel maps a composite score in [1,1000] to its
// qualitative label.
func deriveRiskLevel(score float64) types.RiskLevel {
	switch {
	case score >= 500:
		return types.RiskLevelCritical
	case score >= 250:
		return types.RiskLevelHigh
	case score >= 100:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}

// ScanSummary is the structured per-scan digest submitted to the
// generative planner and matched against the fallback catalog.
type ScanSummary struct {
	ScanID          types.ID              `json:"scan_id"`
	Target          string                `json:"target"`
	OpenPorts       []int                 `json:"open_ports,omitempty"`
	Services        []string              `json:"services,omitempty"`
	OS              string                `json:"os,omitempty"`
	Vulnerabilities []types.Vulnerability `json:"vulnerabilities,omitempty"`
	Findings        []string              `json:"findings,omitempty"`
	ThreatLevel     types.ThreatLevel     `json:"threat_level,omitempty"`
}

// Summarize builds a ScanSummary from a persisted scan. An unreadable
// results blob yields a target-only summary rather than an error.
func Summarize(scan *database.Scan) ScanSummary {
	summary := ScanSummary{
		ScanID:      scan.ID,
		Target:      scan.Target,
		ThreatLevel: scan.ThreatLevel,
	}

	results, err := types.DecodeScanResults(scan.Results)
	if err != nil {
		return summary
	}

	summary.Vulnerabilities = results.Vulnerabilities
	summary.Findings = results.Findings

	if results.Recon != nil {
		summary.OpenPorts = results.Recon.OpenPorts()
		summary.OS = results.Recon.OS
		for _, port := range results.Recon.Ports {
			if port.Service != "" {
				summary.Services = append(summary.Services, port.Service)
			}
		}
	}

	return summary
}

// toAttackPath converts a normalized step into its persistence record.
func (s *Step) toAttackPath(campaignID, runID types.ID, source database.PathSource) *database.AttackPath {
	return &database.AttackPath{
		CampaignID:      campaignID,
		PlanningRunID:   runID,
		Phase:           s.Phase,
		MitreTactic:     s.MitreTactic,
		MitreTechnique:  s.MitreTechnique,
		TechniqueName:   s.TechniqueName,
		Description:     s.Description,
		RiskLevel:       s.RiskLevel,
		RiskScore:       s.RiskScore,
		ToolsRequired:   s.ToolsRequired,
		ToolChain:       s.ToolChain,
		FallbackTools:   s.FallbackTools,
		Prerequisites:   s.Prerequisites,
		ExpectedOutcome: s.ExpectedOutcome,
		ExecutionOrder:  s.Order,
		Source:          source,
		Status:          types.PathStatusPlanned,
	}
}
