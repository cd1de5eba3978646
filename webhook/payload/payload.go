package payload

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Envelope is the JSON body sent to subscribers for every delivery attempt
type Envelope struct {
	// Type is the triggered event, e.g. "report.generated"
	Type string `json:"type"`

	// Timestamp is when the attempt was built, encoded as RFC 3339 with nanoseconds
	Timestamp time.Time `json:"timestamp"`

	// Data is the payload passed to the trigger, untouched
	Data json.RawMessage `json:"data"`
}

// Validate checks the envelope before it is encoded
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return fmt.Errorf("type is required")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if len(e.Data) > 0 && !json.Valid(e.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// MarshalJSON returns the JSON encoding of the envelope
func (e Envelope) MarshalJSON() ([]byte, error) {
	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return json.Marshal(&struct {
		Type      string          `json:"type"`
		Timestamp string          `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}{
		Type:      e.Type,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Data:      data,
	})
}

// UnmarshalJSON parses the JSON-encoded envelope
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type      string          `json:"type"`
		Timestamp string          `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("unmarshaling envelope: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}

	e.Type = aux.Type
	e.Timestamp = timestamp
	e.Data = aux.Data
	return nil
}

// Encode builds and serializes the envelope for an event
func Encode(eventType string, data json.RawMessage, at time.Time) ([]byte, error) {
	env := Envelope{
		Type:      eventType,
		Timestamp: at,
		Data:      data,
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("validating envelope: %w", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshaling envelope: %w", err)
	}
	return body, nil
}

// Parse decodes a body produced by Encode
func Parse(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, err
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("validating envelope: %w", err)
	}
	return env, nil
}
