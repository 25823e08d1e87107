package planning

import (
	"fmt"
	"strings"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// rawStep is the untrusted shape one generated step arrives in. Every
// numeric field is a pointer so "absent" and "zero" stay distinct for
// normalization.
type rawStep struct {
	Phase           string   `json:"phase"`
	MitreTactic     string   `json:"mitre_tactic"`
	MitreTechnique  string   `json:"mitre_technique"`
	TechniqueName   string   `json:"technique_name"`
	Description     string   `json:"description"`
	RiskLevel       string   `json:"risk_level"`
	Exploitability  *float64 `json:"exploitability"`
	Impact          *float64 `json:"impact"`
	Stealth         *float64 `json:"stealth"`
	RiskScore       *float64 `json:"risk_score"`
	ToolsRequired   []string `json:"tools_required"`
	ToolChain       []string `json:"tool_chain"`
	FallbackTools   []string `json:"fallback_tools"`
	Prerequisites   []string `json:"prerequisites"`
	ExpectedOutcome string   `json:"expected_outcome"`
	ExecutionOrder  *int     `json:"execution_order"`
}

// normalizeStep converts one untrusted generated step into a validated
// Step. index is the step's position in the generated array, used when
// execution_order is absent. The external shape is never trusted
// directly: enums are parsed into the closed vocabulary, missing risk
// components take a neutral default, and the composite score is
// re-derived when absent.
func normalizeStep(raw rawStep, index int, scanID types.ID) (Step, error) {
	name := strings.TrimSpace(raw.TechniqueName)
	techniqueID := strings.TrimSpace(raw.MitreTechnique)
	if name == "" && techniqueID == "" {
		return Step{}, fmt.Errorf("step %d carries neither technique name nor technique id", index)
	}
	if name == "" {
		name = techniqueID
	}

	exploitability := neutralComponent
	if raw.Exploitability != nil {
		exploitability = clampComponent(*raw.Exploitability)
	}
	impact := neutralComponent
	if raw.Impact != nil {
		impact = clampComponent(*raw.Impact)
	}
	stealth := neutralComponent
	if raw.Stealth != nil {
		stealth = clampComponent(*raw.Stealth)
	}

	riskScore := exploitability * impact * stealth
	if raw.RiskScore != nil && *raw.RiskScore >= 1 && *raw.RiskScore <= 1000 {
		riskScore = *raw.RiskScore
	}

	riskLevel := types.ParseRiskLevel(raw.RiskLevel)
	if strings.TrimSpace(raw.RiskLevel) == "" {
		riskLevel = deriveRiskLevel(riskScore)
	}

	order := index + 1
	if raw.ExecutionOrder != nil && *raw.ExecutionOrder > 0 {
		order = *raw.ExecutionOrder
	}

	return Step{
		Phase:           types.ParseKillChainPhase(raw.Phase),
		MitreTactic:     strings.TrimSpace(raw.MitreTactic),
		MitreTechnique:  techniqueID,
		TechniqueName:   name,
		Description:     strings.TrimSpace(raw.Description),
		RiskLevel:       riskLevel,
		Exploitability:  exploitability,
		Impact:          impact,
		Stealth:         stealth,
		RiskScore:       riskScore,
		ToolsRequired:   raw.ToolsRequired,
		ToolChain:       raw.ToolChain,
		FallbackTools:   raw.FallbackTools,
		Prerequisites:   raw.Prerequisites,
		ExpectedOutcome: strings.TrimSpace(raw.ExpectedOutcome),
		Order:           order,
		ScanID:          scanID,
	}, nil
}

// normalizeSteps normalizes a full generated array. Any invalid step
// invalidates the whole generation; the caller falls back to the
// deterministic engine.
func normalizeSteps(raws []rawStep, scanID types.ID) ([]Step, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("generated plan contains no steps")
	}

	steps := make([]Step, 0, len(raws))
	for i, raw := range raws {
		step, err := normalizeStep(raw, i, scanID)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return steps, nil
}
