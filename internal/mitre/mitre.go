// Package mitre maintains the ATT&CK technique index used to annotate
// attack path steps, and the append-only mapping store that ties each
// emitted step back to the scan evidence that motivated it.
package mitre

import (
	"fmt"
)

// Technique represents a MITRE ATT&CK technique with the details the
// planner needs.
type Technique struct {
	ID          string `json:"id"`   // e.g., "T1595"
	Name        string `json:"name"` // e.g., "Active Scanning"
	TacticID    string `json:"tactic_id"`
	TacticName  string `json:"tactic_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Index holds the embedded technique catalog.
type Index struct {
	techniques map[string]Technique
	tactics    map[string]string
}

// NewIndex creates the technique index with the network-focused
// ATT&CK subset this pipeline emits.
func NewIndex() *Index {
	idx := &Index{
		techniques: make(map[string]Technique),
		tactics: map[string]string{
			"TA0043": "Reconnaissance",
			"TA0001": "Initial Access",
			"TA0002": "Execution",
			"TA0003": "Persistence",
			"TA0004": "Privilege Escalation",
			"TA0006": "Credential Access",
			"TA0007": "Discovery",
			"TA0008": "Lateral Movement",
			"TA0010": "Exfiltration",
			"TA0011": "Command and Control",
			"TA0040": "Impact",
		},
	}

	idx.initialize()
	return idx
}

func (i *Index) initialize() {
	techniques := []Technique{
		{
			ID:          "T1595",
			Name:        "Active Scanning",
			TacticID:    "TA0043",
			Description: "Adversaries may execute active reconnaissance scans to gather information that can be used during targeting.",
			URL:         "https://attack.mitre.org/techniques/T1595",
		},
		{
			ID:          "T1046",
			Name:        "Network Service Discovery",
			TacticID:    "TA0007",
			Description: "Adversaries may attempt to get a listing of services running on remote hosts.",
			URL:         "https://attack.mitre.org/techniques/T1046",
		},
		{
			ID:          "T1110",
			Name:        "Brute Force",
			TacticID:    "TA0006",
			Description: "Adversaries may use brute force techniques to gain access to accounts when passwords are unknown.",
			URL:         "https://attack.mitre.org/techniques/T1110",
		},
		{
			ID:          "T1190",
			Name:        "Exploit Public-Facing Application",
			TacticID:    "TA0001",
			Description: "Adversaries may exploit weaknesses in Internet-facing applications to gain initial access.",
			URL:         "https://attack.mitre.org/techniques/T1190",
		},
		{
			ID:          "T1078",
			Name:        "Valid Accounts",
			TacticID:    "TA0001",
			Description: "Adversaries may obtain and abuse credentials of existing accounts.",
			URL:         "https://attack.mitre.org/techniques/T1078",
		},
		{
			ID:          "T1135",
			Name:        "Network Share Discovery",
			TacticID:    "TA0007",
			Description: "Adversaries may look for shared folders and drives on remote systems.",
			URL:         "https://attack.mitre.org/techniques/T1135",
		},
		{
			ID:          "T1210",
			Name:        "Exploitation of Remote Services",
			TacticID:    "TA0008",
			Description: "Adversaries may exploit remote services to gain unauthorized access to internal systems.",
			URL:         "https://attack.mitre.org/techniques/T1210",
		},
		{
			ID:          "T1059",
			Name:        "Command and Scripting Interpreter",
			TacticID:    "TA0002",
			Description: "Adversaries may abuse command and script interpreters to execute commands.",
			URL:         "https://attack.mitre.org/techniques/T1059",
		},
		{
			ID:          "T1552",
			Name:        "Unsecured Credentials",
			TacticID:    "TA0006",
			Description: "Adversaries may search for credentials in unsecured locations.",
			URL:         "https://attack.mitre.org/techniques/T1552",
		},
		{
			ID:          "T1071",
			Name:        "Application Layer Protocol",
			TacticID:    "TA0011",
			Description: "Adversaries may communicate using application layer protocols to blend in with existing traffic.",
			URL:         "https://attack.mitre.org/techniques/T1071",
		},
	}

	for _, tech := range techniques {
		tech.TacticName = i.tactics[tech.TacticID]
		i.techniques[tech.ID] = tech
	}
}

// Get retrieves a technique by ID.
func (i *Index) Get(id string) (*Technique, error) {
	if tech, ok := i.techniques[id]; ok {
		return &tech, nil
	}
	return nil, fmt.Errorf("technique not found: %s", id)
}

// TacticName returns the human-readable tactic name for a tactic ID.
func (i *Index) TacticName(tacticID string) string {
	if name, ok := i.tactics[tacticID]; ok {
		return name
	}
	return "Unknown"
}

// List returns all indexed techniques.
func (i *Index) List() []Technique {
	out := make([]Technique, 0, len(i.techniques))
	for _, tech := range i.techniques {
		out = append(out, tech)
	}
	return out
}
