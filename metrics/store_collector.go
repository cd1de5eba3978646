package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-dispatch/webhook"
)

// StoreCollector implements the Collector interface on top of the webhook store
type StoreCollector struct {
	reader webhook.Reader
	now    func() time.Time
}

// NewStoreCollector creates a new store-backed metrics collector
func NewStoreCollector(reader webhook.Reader) *StoreCollector {
	return &StoreCollector{
		reader: reader,
		now:    time.Now,
	}
}

// Collect gathers all metrics from the store
func (c *StoreCollector) Collect(ctx context.Context) (Metrics, error) {
	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	deliveryCounts, err := c.GetDeliveryCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting delivery counts: %w", err)
	}

	entries, err := c.reader.GetLog(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("reading event log: %w", err)
	}

	return Metrics{
		StatusCounts:   statusCounts,
		DeliveryCounts: deliveryCounts,
		EventCounts:    eventCounts(entries),
		LogSize:        int64(len(entries)),
		Throughput:     throughput(entries, c.now()),
		Timestamp:      c.now(),
	}, nil
}

// GetStatusCounts returns counts of subscriptions grouped by status
func (c *StoreCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	statusCounts := map[string]int64{
		webhook.Active.String():   0,
		webhook.Inactive.String(): 0,
		webhook.Error.String():    0,
	}

	subs, err := c.reader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	for _, sub := range subs {
		statusCounts[sub.Status.String()]++
	}
	return statusCounts, nil
}

func (c *StoreCollector) GetDeliveryCounts(ctx context.Context) (map[string]int64, error) {
	subs, err := c.reader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	counts := make(map[string]int64, len(subs))
	for _, sub := range subs {
		counts[sub.ID] = sub.DeliveryCount
	}
	return counts, nil
}

func (c *StoreCollector) GetEventCounts(ctx context.Context) (map[string]int64, error) {
	entries, err := c.reader.GetLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	return eventCounts(entries), nil
}

// GetThroughput counts successful deliveries of logged triggers per window
func (c *StoreCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	entries, err := c.reader.GetLog(ctx)
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("reading event log: %w", err)
	}
	return throughput(entries, c.now()), nil
}

func eventCounts(entries []webhook.LogEntry) map[string]int64 {
	counts := make(map[string]int64)
	for _, e := range entries {
		counts[e.Event]++
	}
	return counts
}

func throughput(entries []webhook.LogEntry, now time.Time) ThroughputMetrics {
	var tp ThroughputMetrics
	for _, e := range entries {
		age := now.Sub(e.Timestamp)
		if age > 15*time.Minute {
			continue
		}
		var delivered int64
		for _, r := range e.Results {
			if r.Success {
				delivered++
			}
		}
		tp.LastFifteenMinutes += delivered
		if age <= 5*time.Minute {
			tp.LastFiveMinutes += delivered
		}
		if age <= time.Minute {
			tp.LastMinute += delivered
		}
	}
	return tp
}
