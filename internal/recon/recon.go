// Package recon gathers supplementary context about a target before
// agent dispatch: DNS records, open ports, and recent threat-intel
// signals. Every collector is best-effort; a failed or absent
// collaborator degrades scan context but never aborts a scan.
package recon

import (
	"context"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// Service gathers recon context for a target.
type Service interface {
	// Gather collects DNS and service information for the target.
	// Partial results are returned alongside a nil error wherever
	// possible; callers treat an error as "no context".
	Gather(ctx context.Context, target string) (*types.ReconContext, error)
}

// IntelService returns recent threat-intel findings for a target as
// free text. Absence is tolerated.
type IntelService interface {
	RecentFindings(ctx context.Context, target string) (string, error)
}
