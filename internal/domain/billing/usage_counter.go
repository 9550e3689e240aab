package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostPerEvent is the estimated price of one tracked event
var CostPerEvent = decimal.RequireFromString("0.005")

const (
	// DefaultHistoryLimit is the number of periods returned when no limit is given
	DefaultHistoryLimit = 12
	// MaxHistoryLimit caps history queries
	MaxHistoryLimit = 120
)

// BillingPeriod identifies one calendar-month accounting window
type BillingPeriod struct {
	Year  int
	Month int
}

// PeriodOf returns the billing period containing t, in UTC
func PeriodOf(t time.Time) BillingPeriod {
	t = t.UTC()
	return BillingPeriod{Year: t.Year(), Month: int(t.Month())}
}

// String renders the period as YYYY-MM
func (p BillingPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// IsValid checks the month range
func (p BillingPeriod) IsValid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// UsageCounter counts tracked events of one user in one period.
// EventCount never decreases and EstimatedCost is always EventCount * CostPerEvent.
type UsageCounter struct {
	shared.BaseEntity
	UserID        uuid.UUID
	Period        BillingPeriod
	EventCount    int64
	EstimatedCost decimal.Decimal
}

// NewUsageCounter creates a zero counter
func NewUsageCounter(userID uuid.UUID, period BillingPeriod) (*UsageCounter, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if !period.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", fmt.Sprintf("Invalid billing period %s", period))
	}
	return &UsageCounter{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		Period:        period,
		EstimatedCost: decimal.Zero,
	}, nil
}

// EstimateCost returns count * rate
func EstimateCost(count int64, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(count))
}

// UsageCounterRepository persists usage counters
type UsageCounterRepository interface {
	// GetOrCreate returns the counter for the period, creating a zero one if missing
	GetOrCreate(ctx context.Context, userID uuid.UUID, period BillingPeriod) (*UsageCounter, error)

	// Increment atomically adds one event to the period's counter, creating it
	// if needed, and recomputes the estimated cost with rate. Concurrent calls
	// never lose updates.
	Increment(ctx context.Context, userID uuid.UUID, period BillingPeriod, rate decimal.Decimal) (*UsageCounter, error)

	// FindHistory returns up to limit counters, newest period first
	FindHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*UsageCounter, error)
}
