package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AssetType classifies what kind of indicator a scan target is.
type AssetType string

const (
	AssetTypeDomain AssetType = "domain"
	AssetTypeIP     AssetType = "ip"
	AssetTypeURL    AssetType = "url"
	AssetTypeHash   AssetType = "hash"
	AssetTypeEmail  AssetType = "email"
)

// String returns the string representation of AssetType.
func (a AssetType) String() string {
	return string(a)
}

// IsValid checks if the AssetType is a valid value.
func (a AssetType) IsValid() bool {
	switch a {
	case AssetTypeDomain, AssetTypeIP, AssetTypeURL, AssetTypeHash, AssetTypeEmail:
		return true
	default:
		return false
	}
}

// ParseAssetType parses a string into an AssetType, rejecting values
// outside the closed vocabulary.
func ParseAssetType(s string) (AssetType, error) {
	at := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !at.IsValid() {
		return "", fmt.Errorf("invalid asset type: %s", s)
	}
	return at, nil
}

// ThreatLevel is the classified severity of a completed scan.
// It is a pure function of the aggregate (never set arbitrarily).
type ThreatLevel string

const (
	ThreatLevelLow      ThreatLevel = "low"
	ThreatLevelMedium   ThreatLevel = "medium"
	ThreatLevelHigh     ThreatLevel = "high"
	ThreatLevelCritical ThreatLevel = "critical"
)

// String returns the string representation of ThreatLevel.
func (t ThreatLevel) String() string {
	return string(t)
}

// IsValid checks if the ThreatLevel is a valid value.
func (t ThreatLevel) IsValid() bool {
	switch t {
	case ThreatLevelLow, ThreatLevelMedium, ThreatLevelHigh, ThreatLevelCritical:
		return true
	default:
		return false
	}
}

// RiskLevel is the qualitative risk label attached to an attack step.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// String returns the string representation of RiskLevel.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid checks if the RiskLevel is a valid value.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	default:
		return false
	}
}

// ParseRiskLevel parses a string from a dynamic source into a RiskLevel.
// Unknown values default to medium so a sloppy generator cannot inject
// vocabulary the rest of the pipeline does not understand.
func ParseRiskLevel(s string) RiskLevel {
	r := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return RiskLevelMedium
	}
	return r
}

// KillChainPhase is the ordered phase an attack step belongs to.
type KillChainPhase string

const (
	PhaseReconnaissance      KillChainPhase = "reconnaissance"
	PhaseWeaponization       KillChainPhase = "weaponization"
	PhaseDelivery            KillChainPhase = "delivery"
	PhaseExploitation        KillChainPhase = "exploitation"
	PhaseInstallation        KillChainPhase = "installation"
	PhaseCommandAndControl   KillChainPhase = "command-and-control"
	PhaseActionsOnObjectives KillChainPhase = "actions-on-objectives"
)

// String returns the string representation of KillChainPhase.
func (p KillChainPhase) String() string {
	return string(p)
}

// IsValid checks if the KillChainPhase is a valid value.
func (p KillChainPhase) IsValid() bool {
	switch p {
	case PhaseReconnaissance, PhaseWeaponization, PhaseDelivery,
		PhaseExploitation, PhaseInstallation, PhaseCommandAndControl,
		PhaseActionsOnObjectives:
		return true
	default:
		return false
	}
}

// Order returns the position of the phase in the kill chain, starting
// at zero for reconnaissance. Invalid phases sort first.
func (p KillChainPhase) Order() int {
	switch p {
	case PhaseReconnaissance:
		return 0
	case PhaseWeaponization:
		return 1
	case PhaseDelivery:
		return 2
	case PhaseExploitation:
		return 3
	case PhaseInstallation:
		return 4
	case PhaseCommandAndControl:
		return 5
	case PhaseActionsOnObjectives:
		return 6
	default:
		return -1
	}
}

// ParseKillChainPhase parses a string from a dynamic source into a
// KillChainPhase. Common aliases from generator output are accepted;
// anything else defaults to reconnaissance.
func ParseKillChainPhase(s string) KillChainPhase {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")

	switch normalized {
	case "recon":
		normalized = string(PhaseReconnaissance)
	case "c2", "command-control":
		normalized = string(PhaseCommandAndControl)
	case "actions", "objectives":
		normalized = string(PhaseActionsOnObjectives)
	}

	p := KillChainPhase(normalized)
	if !p.IsValid() {
		return PhaseReconnaissance
	}
	return p
}

// Severity classifies a single reported vulnerability.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of Severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the Severity is a valid value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// IsHighOrCritical reports whether the severity counts toward the
// high-severity aggregate used for threat classification.
func (s Severity) IsHighOrCritical() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// UnmarshalJSON implements json.Unmarshaler. Unknown severities from
// generator output are coerced to info rather than rejected, so one
// sloppy label does not fail an otherwise valid agent report.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	sev := Severity(strings.ToLower(strings.TrimSpace(str)))
	if !sev.IsValid() {
		sev = SeverityInfo
	}

	*s = sev
	return nil
}
