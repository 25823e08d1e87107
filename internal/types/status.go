package types

import (
	"encoding/json"
	"fmt"
)

// ScanStatus represents the lifecycle state of a scan.
// Transitions are monotonic: pending -> running -> completed|failed.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// String returns the string representation of ScanStatus.
func (s ScanStatus) String() string {
	return string(s)
}

// IsValid checks if the ScanStatus is a valid value.
func (s ScanStatus) IsValid() bool {
	switch s {
	case ScanStatusPending, ScanStatusRunning, ScanStatusCompleted, ScanStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true when the status can no longer change.
func (s ScanStatus) IsTerminal() bool {
	return s == ScanStatusCompleted || s == ScanStatusFailed
}

// CanTransitionTo reports whether moving to next is a legal forward
// transition. Backward transitions and leaving a terminal state are not.
func (s ScanStatus) CanTransitionTo(next ScanStatus) bool {
	switch s {
	case ScanStatusPending:
		return next == ScanStatusRunning || next == ScanStatusFailed
	case ScanStatusRunning:
		return next == ScanStatusCompleted || next == ScanStatusFailed
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler.
func (s ScanStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ScanStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := ScanStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid scan status: %s", str)
	}

	*s = status
	return nil
}

// ExecutionStatus represents the state of a single agent execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// String returns the string representation of ExecutionStatus.
func (s ExecutionStatus) String() string {
	return string(s)
}

// IsValid checks if the ExecutionStatus is a valid value.
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionStatusPending, ExecutionStatusRunning,
		ExecutionStatusCompleted, ExecutionStatusFailed:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler.
func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := ExecutionStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid execution status: %s", str)
	}

	*s = status
	return nil
}

// PathStatus represents the lifecycle state of an attack path step.
// Steps are immutable once created; status changes are an external
// presentation concern.
type PathStatus string

const (
	PathStatusPlanned    PathStatus = "planned"
	PathStatusInProgress PathStatus = "in_progress"
	PathStatusCompleted  PathStatus = "completed"
	PathStatusSkipped    PathStatus = "skipped"
)

// String returns the string representation of PathStatus.
func (s PathStatus) String() string {
	return string(s)
}

// IsValid checks if the PathStatus is a valid value.
func (s PathStatus) IsValid() bool {
	switch s {
	case PathStatusPlanned, PathStatusInProgress, PathStatusCompleted, PathStatusSkipped:
		return true
	default:
		return false
	}
}
