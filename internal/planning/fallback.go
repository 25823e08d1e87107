package planning

import (
	"fmt"
)

// FallbackPlan runs the deterministic rule engine: match each scan's
// observed ports and services against the service catalog and
// concatenate the matching sub-sequences, in catalog order. A scan
// matching nothing contributes one default reconnaissance step.
// Returned steps carry provisional per-concatenation order; the
// planner assigns the campaign-wide execution order.
func FallbackPlan(summaries []ScanSummary) []Step {
	var steps []Step

	for _, summary := range summaries {
		matched := false
		portSet := make(map[int]bool, len(summary.OpenPorts))
		for _, port := range summary.OpenPorts {
			portSet[port] = true
		}
		serviceSet := make(map[string]bool, len(summary.Services))
		for _, svc := range summary.Services {
			serviceSet[svc] = true
		}

		for _, entry := range serviceCatalog {
			if !entryMatches(entry, portSet, serviceSet) {
				continue
			}
			matched = true
			steps = append(steps, instantiate(entry.steps, summary)...)
		}

		if !matched {
			steps = append(steps, instantiate([]Step{defaultStep}, summary)...)
		}
	}

	for i := range steps {
		steps[i].Order = i + 1
	}

	return steps
}

// entryMatches reports whether any of the entry's signature ports (or
// its name as a service label) was observed.
func entryMatches(entry catalogEntry, ports map[int]bool, services map[string]bool) bool {
	for _, port := range entry.ports {
		if ports[port] {
			return true
		}
	}
	return services[entry.name]
}

// instantiate copies catalog steps for one scan, deriving the composite
// score and label from the preset components and stamping the scan
// attribution and target into the description.
func instantiate(catalog []Step, summary ScanSummary) []Step {
	out := make([]Step, len(catalog))
	for i, step := range catalog {
		step.Exploitability = clampComponent(step.Exploitability)
		step.Impact = clampComponent(step.Impact)
		step.Stealth = clampComponent(step.Stealth)
		step.RiskScore = step.Exploitability * step.Impact * step.Stealth
		if step.RiskLevel == "" {
			step.RiskLevel = deriveRiskLevel(step.RiskScore)
		}
		step.ScanID = summary.ScanID
		if summary.Target != "" {
			step.Description = fmt.Sprintf("%s Target: %s.", step.Description, summary.Target)
		}
		// Copy slice headers defensively; catalog entries are shared.
		step.ToolsRequired = append([]string(nil), step.ToolsRequired...)
		step.ToolChain = append([]string(nil), step.ToolChain...)
		step.FallbackTools = append([]string(nil), step.FallbackTools...)
		step.Prerequisites = append([]string(nil), step.Prerequisites...)
		out[i] = step
	}
	return out
}
