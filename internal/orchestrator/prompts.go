package orchestrator

import (
	"fmt"
	"strings"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// analysisSystemPrompt frames every agent call and pins the hard
// output contract the executor validates against.
const analysisSystemPrompt = `You are a security analysis agent assisting an authorized penetration test.
Respond with a single JSON object and nothing else, in exactly this shape:
{"vulnerabilities": [{"name": "...", "severity": "low|medium|high|critical", "description": "..."}], "findings": ["..."], "risk_score": <number 0-10>}`

// BuildAgentPrompt substitutes the target into the agent's template and
// appends whatever supplementary context was gathered. Missing recon or
// intel context simply shortens the prompt.
func BuildAgentPrompt(template, target string, rc *types.ReconContext) string {
	var b strings.Builder

	prompt := strings.ReplaceAll(template, "{target}", target)
	b.WriteString(prompt)

	if rc != nil {
		if len(rc.Ports) > 0 {
			b.WriteString("\n\nObserved network surface:\n")
			for _, port := range rc.Ports {
				if port.Service != "" {
					fmt.Fprintf(&b, "- %d/tcp (%s)\n", port.Port, port.Service)
				} else {
					fmt.Fprintf(&b, "- %d/tcp\n", port.Port)
				}
			}
		}
		if len(rc.Addresses) > 0 {
			fmt.Fprintf(&b, "\nResolved addresses: %s\n", strings.Join(rc.Addresses, ", "))
		}
		if rc.OS != "" {
			fmt.Fprintf(&b, "Operating system: %s\n", rc.OS)
		}
		if rc.IntelReport != "" {
			b.WriteString("\nRecent threat intelligence:\n")
			b.WriteString(rc.IntelReport)
			b.WriteString("\n")
		}
	}

	return b.String()
}
