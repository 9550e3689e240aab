package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartKey contextKey = "otel_query_start"

// DBTracing registers otelgorm spans plus slow-query and error annotations.
type DBTracing struct {
	enabled   bool
	fullSQL   bool
	slowQuery time.Duration
	logger    *zap.Logger
}

// NewDBTracing creates a DBTracing from the telemetry configuration.
func NewDBTracing(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracing {
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &DBTracing{
		enabled:   cfg.DBTraceEnabled,
		fullSQL:   cfg.DBLogFullSQL,
		slowQuery: slow,
		logger:    logger,
	}
}

// Register installs the plugin on db. Query variables stay out of spans
// unless full SQL is enabled.
func (d *DBTracing) Register(db *gorm.DB) error {
	if !d.enabled {
		return nil
	}

	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", markQueryStart) },
		func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", markQueryStart) },
		func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", markQueryStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markQueryStart) },
		func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", markQueryStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Register("otel_slow_query:create", d.annotate) },
		func() error { return cb.Query().After("gorm:query").Register("otel_slow_query:query", d.annotate) },
		func() error { return cb.Update().After("gorm:update").Register("otel_slow_query:update", d.annotate) },
		func() error { return cb.Delete().After("gorm:delete").Register("otel_slow_query:delete", d.annotate) },
		func() error { return cb.Row().After("gorm:row").Register("otel_slow_query:row", d.annotate) },
		func() error { return cb.Raw().After("gorm:raw").Register("otel_slow_query:raw", d.annotate) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	// Registered after the annotations so otelgorm ends spans last.
	opts := []otelgorm.Option{otelgorm.WithDBName(db.Dialector.Name())}
	if !d.fullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	d.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", d.fullSQL),
		zap.Duration("slow_query_threshold", d.slowQuery),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

func (d *DBTracing) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > d.slowQuery {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning")
		}
	}
}
