package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the dispatch system.
type Metrics struct {
	// StatusCounts maps status name to count of subscriptions in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// DeliveryCounts maps subscription id to its lifetime attempt count
	DeliveryCounts map[string]int64 `json:"delivery_counts"`

	// EventCounts maps event type to the number of retained log entries
	EventCounts map[string]int64 `json:"event_counts"`

	// LogSize is the number of retained event log entries
	LogSize int64 `json:"log_size"`

	// Throughput represents successful deliveries per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents successful deliveries over different time windows.
// Only triggers still in the event log are counted.
type ThroughputMetrics struct {
	LastMinute         int64 `json:"last_minute"`
	LastFiveMinutes    int64 `json:"last_five_minutes"`
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Collector defines the interface for collecting metrics from the dispatch system.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStatusCounts returns the count of subscriptions by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetDeliveryCounts returns lifetime attempts per subscription
	GetDeliveryCounts(ctx context.Context) (map[string]int64, error)

	// GetEventCounts returns retained log entries per event type
	GetEventCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns successful deliveries over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)
}
