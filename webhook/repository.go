package webhook

import (
	"context"
	"encoding/json"
	"fmt"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides snapshot reads of subscriptions and the event log
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (Subscription, error)
	List(ctx context.Context) ([]Subscription, error)
	/* ListByEvent returns active subscriptions listening for the event
	 * It is the only eligibility filter used for triggered deliveries
	 */
	ListByEvent(ctx context.Context, event string) ([]Subscription, error)
	GetLog(ctx context.Context) ([]LogEntry, error)
}

// Writer provides mutations of subscriptions
type Writer interface {
	Register(ctx context.Context, spec Spec) (Subscription, error)
	Unregister(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, patch Patch) (Subscription, error)
	/* RecordDelivery counts one attempt and stores it as the last delivery
	 * Calls for the same subscription are serialized so no increment is lost
	 */
	RecordDelivery(ctx context.Context, id string, attempt Delivery) error
}

// LogWriter appends to the bounded event log
type LogWriter interface {
	AppendLogEntry(ctx context.Context, entry LogEntry) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	LogWriter
}

// State is the durable blob holding every subscription and the retained event log
type State struct {
	Webhooks []Subscription `json:"webhooks"`
	EventLog []LogEntry     `json:"eventLog"`
}

// Persister loads and saves the whole state under a single well-known key
type Persister interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// Encode serializes a state for persisters that store raw bytes
func (s State) Encode() ([]byte, error) {
	if s.Webhooks == nil {
		s.Webhooks = []Subscription{}
	}
	if s.EventLog == nil {
		s.EventLog = []LogEntry{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}
	return data, nil
}

// DecodeState parses a blob written by Encode
func DecodeState(data []byte) (State, error) {
	var s State
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("unmarshaling state: %w", err)
	}
	return s, nil
}
