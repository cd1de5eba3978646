package webhook

import (
	"encoding/json"
	"time"
)

/* Subscription represents a registered webhook in the system
 * Uses value semantics as it represents data, not behavior
 */
type Subscription struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	URL           string            `json:"url"`
	Events        []string          `json:"events"`
	Headers       map[string]string `json:"headers,omitempty"`
	Secret        string            `json:"secret,omitempty"`
	Status        Status            `json:"status"`
	DeliveryCount int64             `json:"deliveryCount"`
	LastDelivery  *Delivery         `json:"lastDelivery"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Delivery is the record of the most recent attempt made to a subscription
type Delivery struct {
	Timestamp      time.Time       `json:"timestamp"`
	Event          string          `json:"event"`
	Payload        json.RawMessage `json:"payload"`
	Success        bool            `json:"success"`
	StatusCode     int             `json:"statusCode,omitempty"`
	ResponseTimeMs int64           `json:"responseTimeMs"`
}

// Listens reports whether the subscription includes the event type
func (s Subscription) Listens(event string) bool {
	for _, e := range s.Events {
		if e == event {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers never share slices or maps with the store
func (s Subscription) clone() Subscription {
	c := s
	c.Events = append([]string(nil), s.Events...)
	if s.Headers != nil {
		c.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			c.Headers[k] = v
		}
	}
	if s.LastDelivery != nil {
		d := *s.LastDelivery
		d.Payload = cloneRaw(s.LastDelivery.Payload)
		c.LastDelivery = &d
	}
	return c
}

// Spec holds the caller supplied fields used to register a subscription
type Spec struct {
	Name    string            `json:"name" yaml:"name"`
	URL     string            `json:"url" yaml:"url"`
	Events  []string          `json:"events" yaml:"events"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers"`
	Secret  string            `json:"secret,omitempty" yaml:"secret"`
}

/* Patch carries optional updates to an existing subscription
 * nil fields are left untouched; ID and CreatedAt are never patchable
 */
type Patch struct {
	Name    *string            `json:"name,omitempty"`
	URL     *string            `json:"url,omitempty"`
	Events  *[]string          `json:"events,omitempty"`
	Headers *map[string]string `json:"headers,omitempty"`
	Secret  *string            `json:"secret,omitempty"`
	Status  *Status            `json:"status,omitempty"`
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	return append(json.RawMessage(nil), r...)
}
