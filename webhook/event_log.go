package webhook

import (
	"encoding/json"
	"time"
)

// DefaultLogLimit is the number of event log entries retained
const DefaultLogLimit = 100

// LogEntry is one trigger and its per-subscription outcomes; immutable once appended
type LogEntry struct {
	ID                string           `json:"id"`
	Event             string           `json:"event"`
	Payload           json.RawMessage  `json:"payload"`
	Timestamp         time.Time        `json:"timestamp"`
	WebhooksTriggered int              `json:"webhooksTriggered"`
	Results           []DeliveryResult `json:"results"`
}

// DeliveryResult is the outcome of one delivery attempt to one subscription
type DeliveryResult struct {
	WebhookID      string `json:"webhookId"`
	Success        bool   `json:"success"`
	StatusCode     int    `json:"statusCode,omitempty"`
	Error          string `json:"error,omitempty"`
	ResponseTimeMs int64  `json:"responseTimeMs,omitempty"`
}

func (e LogEntry) clone() LogEntry {
	c := e
	c.Payload = cloneRaw(e.Payload)
	c.Results = append([]DeliveryResult(nil), e.Results...)
	return c
}
