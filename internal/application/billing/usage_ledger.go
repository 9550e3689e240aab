package billing

import (
	"context"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UsageLedgerConfig contains configuration for UsageLedger
type UsageLedgerConfig struct {
	CostPerEvent decimal.Decimal
	Clock        func() time.Time
}

// DefaultUsageLedgerConfig returns default configuration
func DefaultUsageLedgerConfig() UsageLedgerConfig {
	return UsageLedgerConfig{
		CostPerEvent: billing.CostPerEvent,
		Clock:        time.Now,
	}
}

// UsageLedger maintains per-user monthly event counters
type UsageLedger struct {
	counters billing.UsageCounterRepository
	logger   *zap.Logger
	rate     decimal.Decimal
	now      func() time.Time
}

// NewUsageLedger creates a new UsageLedger
func NewUsageLedger(counters billing.UsageCounterRepository, logger *zap.Logger, config UsageLedgerConfig) *UsageLedger {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.CostPerEvent.IsZero() {
		config.CostPerEvent = billing.CostPerEvent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageLedger{
		counters: counters,
		logger:   logger,
		rate:     config.CostPerEvent,
		now:      config.Clock,
	}
}

// WithRepository returns a ledger that writes through repo, typically one
// bound to an open transaction.
func (l *UsageLedger) WithRepository(repo billing.UsageCounterRepository) *UsageLedger {
	clone := *l
	clone.counters = repo
	return &clone
}

// CurrentPeriod returns the billing period of the ledger clock
func (l *UsageLedger) CurrentPeriod() billing.BillingPeriod {
	return billing.PeriodOf(l.now())
}

// IncrementUsage records one event in the current period
func (l *UsageLedger) IncrementUsage(ctx context.Context, userID uuid.UUID) (*billing.UsageCounter, error) {
	if userID == uuid.Nil {
		return nil, billing.ErrInvalidUserID
	}
	period := l.CurrentPeriod()

	counter, err := l.counters.Increment(ctx, userID, period, l.rate)
	if err != nil {
		l.logger.Error("Failed to increment usage",
			zap.String("user_id", userID.String()),
			zap.String("period", period.String()),
			zap.Error(err))
		return nil, err
	}

	l.logger.Debug("Usage incremented",
		zap.String("user_id", userID.String()),
		zap.String("period", period.String()),
		zap.Int64("event_count", counter.EventCount))
	return counter, nil
}

// GetCurrentPeriodUsage returns the current period's counter, creating a zero one if needed
func (l *UsageLedger) GetCurrentPeriodUsage(ctx context.Context, userID uuid.UUID) (*billing.UsageCounter, error) {
	if userID == uuid.Nil {
		return nil, billing.ErrInvalidUserID
	}
	return l.counters.GetOrCreate(ctx, userID, l.CurrentPeriod())
}

// GetHistory returns up to limit periods, newest first.
// A non-positive limit means DefaultHistoryLimit.
func (l *UsageLedger) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*billing.UsageCounter, error) {
	if userID == uuid.Nil {
		return nil, billing.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = billing.DefaultHistoryLimit
	}
	if limit > billing.MaxHistoryLimit {
		limit = billing.MaxHistoryLimit
	}
	return l.counters.FindHistory(ctx, userID, limit)
}
