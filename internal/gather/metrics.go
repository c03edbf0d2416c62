package gather

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/wayfinder/wayfinder/internal/gather"

// adapterMetrics records per-adapter fetch outcomes. Instruments are
// best-effort: a failed instrument registration degrades to no-op recording.
type adapterMetrics struct {
	fetchDuration metric.Float64Histogram
	fetchTotal    metric.Int64Counter
}

func newAdapterMetrics() *adapterMetrics {
	meter := otel.Meter(meterName)

	m := &adapterMetrics{}
	m.fetchDuration, _ = meter.Float64Histogram(
		"adapter.fetch.duration",
		metric.WithDescription("Duration of adapter fetch calls in seconds"),
		metric.WithUnit("s"),
	)
	m.fetchTotal, _ = meter.Int64Counter(
		"adapter.fetch.total",
		metric.WithDescription("Total number of adapter fetch calls"),
		metric.WithUnit("{call}"),
	)
	return m
}

func (m *adapterMetrics) record(adapter string, elapsed time.Duration, failed bool) {
	attrs := []attribute.KeyValue{
		attribute.String("adapter.name", adapter),
	}
	if failed {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Metrics outlive the request, so avoid inheriting its cancellation.
	ctx := context.Background()
	if m.fetchDuration != nil {
		m.fetchDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	}
	if m.fetchTotal != nil {
		m.fetchTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
