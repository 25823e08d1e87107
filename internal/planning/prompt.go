package planning

import (
	"fmt"
	"strings"
)

// planningSystemPrompt pins the JSON contract for the generative
// planner. The response must be a bare array of step objects; anything
// else is rejected during validation and the run falls back to the
// rule engine.
const planningSystemPrompt = `You are an attack path planner for an authorized security assessment.
Given completed scan findings, produce an ordered attack plan as a JSON array of step objects.

Each step object must have these fields:
{
  "phase": "reconnaissance|weaponization|delivery|exploitation|installation|command_and_control|actions_on_objectives",
  "mitre_tactic": "TA____ tactic ID",
  "mitre_technique": "T____ technique ID",
  "technique_name": "human-readable technique name",
  "description": "what this step does and why the findings motivate it",
  "risk_level": "low|medium|high|critical",
  "exploitability": 1-10,
  "impact": 1-10,
  "stealth": 1-10,
  "risk_score": exploitability * impact * stealth,
  "tools_required": ["tool", ...],
  "tool_chain": ["tool", ...],
  "fallback_tools": ["tool", ...],
  "prerequisites": ["technique_name of an earlier step", ...],
  "expected_outcome": "concrete deliverable of the step",
  "execution_order": 1-based position
}

Rules:
- Order steps so reconnaissance precedes exploitation of the same service.
- Every exploitation step lists its reconnaissance step in prerequisites.
- Only plan against services present in the findings.
- Respond with the JSON array only. No prose, no markdown.`

// buildPlanPrompt renders the per-scan summaries into the user prompt.
func buildPlanPrompt(summaries []ScanSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan an attack path for a campaign covering %d completed scan(s).\n\n", len(summaries))

	for i, summary := range summaries {
		fmt.Fprintf(&b, "Scan %d: %s\n", i+1, summary.Target)
		if summary.ThreatLevel != "" {
			fmt.Fprintf(&b, "  Threat level: %s\n", summary.ThreatLevel)
		}
		if len(summary.OpenPorts) > 0 {
			fmt.Fprintf(&b, "  Open ports: %s\n", joinInts(summary.OpenPorts))
		}
		if len(summary.Services) > 0 {
			fmt.Fprintf(&b, "  Services: %s\n", strings.Join(summary.Services, ", "))
		}
		if summary.OS != "" {
			fmt.Fprintf(&b, "  OS: %s\n", summary.OS)
		}
		for _, vuln := range summary.Vulnerabilities {
			fmt.Fprintf(&b, "  Vulnerability [%s]: %s\n", vuln.Severity, vuln.Name)
		}
		for _, finding := range summary.Findings {
			fmt.Fprintf(&b, "  Finding: %s\n", finding)
		}
		b.WriteString("\n")
	}

	b.WriteString("Respond with the JSON array of attack steps.")
	return b.String()
}

func joinInts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}
