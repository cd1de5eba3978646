package metrics

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards.
// It also implements webhook.DeliveryObserver so the engine can report each attempt.
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector
	gatherer      promclient.Gatherer

	// OTel meters and instruments
	meter              metric.Meter
	statusCountGauge   metric.Int64ObservableGauge
	eventLogSizeGauge  metric.Int64ObservableGauge
	throughputGauge    metric.Int64ObservableGauge
	attemptsCounter    metric.Int64Counter
	responseTimeMillis metric.Int64Histogram
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter on the default Prometheus registry
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	oe, err := NewOTelExporterWithRegistry(collector, promclient.DefaultRegisterer, promclient.DefaultGatherer)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(oe.meterProvider)
	return oe, nil
}

// NewOTelExporterWithRegistry creates an exporter bound to the given Prometheus registry
func NewOTelExporterWithRegistry(collector Collector, reg promclient.Registerer, gatherer promclient.Gatherer) (*OTelExporter, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	meter := meterProvider.Meter(
		"webhook-dispatch",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		gatherer:      gatherer,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.subscriptions",
		metric.WithDescription("Number of subscriptions by status"),
		metric.WithUnit("{subscriptions}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	oe.eventLogSizeGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.event_log.entries",
		metric.WithDescription("Number of retained event log entries per event type"),
		metric.WithUnit("{entries}"),
		metric.WithInt64Callback(oe.observeEventCounts),
	)
	if err != nil {
		return fmt.Errorf("creating event log gauge: %w", err)
	}

	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.throughput",
		metric.WithDescription("Number of successful deliveries over time window"),
		metric.WithUnit("{deliveries}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	oe.attemptsCounter, err = oe.meter.Int64Counter(
		"webhook.delivery.attempts",
		metric.WithDescription("Number of delivery attempts by event and outcome"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return fmt.Errorf("creating attempts counter: %w", err)
	}

	oe.responseTimeMillis, err = oe.meter.Int64Histogram(
		"webhook.delivery.duration",
		metric.WithDescription("Response time of delivery attempts"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return fmt.Errorf("creating duration histogram: %w", err)
	}

	return nil
}

// DeliveryAttempted records one attempt reported by the engine
func (oe *OTelExporter) DeliveryAttempted(ctx context.Context, event string, success bool, responseTimeMs int64) {
	attrs := metric.WithAttributes(
		attribute.String("event.type", event),
		attribute.Bool("delivery.success", success),
	)
	oe.attemptsCounter.Add(ctx, 1, attrs)
	oe.responseTimeMillis.Record(ctx, responseTimeMs, attrs)
}

func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	statusCounts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range statusCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("webhook.status", status),
		))
	}

	return nil
}

func (oe *OTelExporter) observeEventCounts(ctx context.Context, observer metric.Int64Observer) error {
	eventCounts, err := oe.collector.GetEventCounts(ctx)
	if err != nil {
		return err
	}

	for event, count := range eventCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("event.type", event),
		))
	}

	return nil
}

func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

// ServeHTTP returns the Prometheus scrape handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.gatherer, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
