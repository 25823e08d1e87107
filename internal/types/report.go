package types

import (
	"encoding/json"
	"fmt"
)

// Vulnerability is a single issue reported by an analysis agent.
type Vulnerability struct {
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description,omitempty"`
	Evidence    string   `json:"evidence,omitempty"`
}

// AgentReport is the hard output contract every analysis agent call
// must satisfy. Anything that does not parse into this shape marks
// the execution failed.
type AgentReport struct {
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Findings        []string        `json:"findings"`
	RiskScore       float64         `json:"risk_score"`
}

// Validate rejects reports whose risk score is outside the 0-10 range
// the analysis prompt demands.
func (r *AgentReport) Validate() error {
	if r.RiskScore < 0 || r.RiskScore > 10 {
		return fmt.Errorf("risk_score %.2f outside [0,10]", r.RiskScore)
	}
	return nil
}

// PortInfo describes one observed open port and the service behind it.
type PortInfo struct {
	Port    int    `json:"port"`
	Service string `json:"service,omitempty"`
	Banner  string `json:"banner,omitempty"`
}

// ReconContext is the supplementary context gathered from the recon
// collaborator before agent dispatch. All fields are best-effort; an
// empty context degrades analysis quality but never aborts a scan.
type ReconContext struct {
	Hostname    string     `json:"hostname,omitempty"`
	Addresses   []string   `json:"addresses,omitempty"`
	Ports       []PortInfo `json:"ports,omitempty"`
	OS          string     `json:"os,omitempty"`
	IntelReport string     `json:"intel_report,omitempty"`
}

// OpenPorts returns just the port numbers, in observed order.
func (r *ReconContext) OpenPorts() []int {
	if r == nil {
		return nil
	}
	ports := make([]int, 0, len(r.Ports))
	for _, p := range r.Ports {
		ports = append(ports, p.Port)
	}
	return ports
}

// ScanResults is the aggregate persisted on a completed scan. The
// planner rebuilds its per-scan summaries from this blob without
// re-probing the target.
type ScanResults struct {
	Vulnerabilities      []Vulnerability `json:"vulnerabilities"`
	Findings             []string        `json:"findings"`
	AvgRiskScore         float64         `json:"avg_risk_score"`
	HighSeverityCount    int             `json:"high_severity_count"`
	TotalVulnerabilities int             `json:"total_vulnerabilities"`
	AgentsSucceeded      int             `json:"agents_succeeded"`
	AgentsFailed         int             `json:"agents_failed"`
	Recon                *ReconContext   `json:"recon,omitempty"`
}

// Encode serializes the results for storage.
func (r *ScanResults) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scan results: %w", err)
	}
	return string(data), nil
}

// DecodeScanResults parses a stored results blob. An empty blob yields
// an empty aggregate rather than an error.
func DecodeScanResults(blob string) (*ScanResults, error) {
	if blob == "" {
		return &ScanResults{}, nil
	}

	var results ScanResults
	if err := json.Unmarshal([]byte(blob), &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan results: %w", err)
	}
	return &results, nil
}
