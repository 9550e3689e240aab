package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "adtracking/webhooks"

// WebhookMetrics counts webhook outcomes and tracked events.
type WebhookMetrics struct {
	deliveries metric.Int64Counter
	tracked    metric.Int64Counter
}

var _ apptracking.OutcomeRecorder = (*WebhookMetrics)(nil)

// NewWebhookMetrics registers the webhook instruments on meter.
func NewWebhookMetrics(meter metric.Meter) (*WebhookMetrics, error) {
	deliveries, err := meter.Int64Counter(
		"webhook_deliveries_total",
		metric.WithDescription("Webhook deliveries by marketplace and outcome"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook_deliveries_total: %w", err)
	}
	tracked, err := meter.Int64Counter(
		"tracked_events_total",
		metric.WithDescription("Billable purchase events by source"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracked_events_total: %w", err)
	}
	return &WebhookMetrics{deliveries: deliveries, tracked: tracked}, nil
}

// RecordWebhookOutcome increments the delivery counter. Callers pass a known
// path segment or "unknown".
func (m *WebhookMetrics) RecordWebhookOutcome(ctx context.Context, marketplace string, kind apptracking.OutcomeKind, reason string) {
	if marketplace == "" {
		marketplace = "unknown"
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("marketplace", marketplace),
		attribute.String("outcome", string(kind)),
		attribute.String("reason", reason),
	))
}

// RecordTrackedEvent increments the tracked event counter.
func (m *WebhookMetrics) RecordTrackedEvent(ctx context.Context, source string) {
	m.tracked.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RegisterDBPoolMetrics exposes connection pool statistics as observable gauges.
func RegisterDBPoolMetrics(meter metric.Meter, db *sql.DB) error {
	open, err := meter.Int64ObservableGauge("db_pool_open_connections",
		metric.WithDescription("Open connections, in use and idle"))
	if err != nil {
		return err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_in_use_connections")
	if err != nil {
		return err
	}
	idle, err := meter.Int64ObservableGauge("db_pool_idle_connections")
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_count_total",
		metric.WithDescription("Connections waited for"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(idle, int64(stats.Idle))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, idle, waits)
	return err
}
