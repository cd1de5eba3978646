package webhook

import (
	"encoding/json"
	"fmt"
)

/* Status represents the current state of a subscription
 * Follows the lifecycle: Active <-> Inactive, Error is only set explicitly through Update
 */
type Status int

const (
	Active Status = iota + 1
	Inactive
	Error
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "active":
		return Active
	case "inactive":
		return Inactive
	case "error":
		return Error
	default:
		return Status(0)
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Active || s > Error {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// IsEligible returns true if a subscription in this status receives triggered events
func (s Status) IsEligible() bool {
	return s == Active
}

// MarshalJSON encodes the status as its string form
func (s Status) MarshalJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its string form
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("unmarshaling status: %w", err)
	}
	status := NewStatus(str)
	if err := status.Validate(); err != nil {
		return fmt.Errorf("unknown status %q", str)
	}
	*s = status
	return nil
}
