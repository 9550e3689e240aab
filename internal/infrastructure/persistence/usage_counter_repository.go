package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUsageCounterRepository implements UsageCounterRepository using GORM
type GormUsageCounterRepository struct {
	db *gorm.DB
}

// NewGormUsageCounterRepository creates a new GormUsageCounterRepository
func NewGormUsageCounterRepository(db *gorm.DB) *GormUsageCounterRepository {
	return &GormUsageCounterRepository{db: db}
}

func periodScope(userID uuid.UUID, period billing.BillingPeriod) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND year = ? AND month = ?", userID, period.Year, period.Month)
	}
}

// ensure materializes a zero counter for the period if none exists
func (r *GormUsageCounterRepository) ensure(db *gorm.DB, userID uuid.UUID, period billing.BillingPeriod) error {
	counter, err := billing.NewUsageCounter(userID, period)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoNothing: true,
	}).Create(models.UsageCounterModelFromDomain(counter)).Error
}

// GetOrCreate returns the period's counter, creating a zero one if missing
func (r *GormUsageCounterRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, period billing.BillingPeriod) (*billing.UsageCounter, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensure(db, userID, period); err != nil {
		return nil, fmt.Errorf("failed to create usage counter: %w", err)
	}

	var model models.UsageCounterModel
	if err := db.Scopes(periodScope(userID, period)).First(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to load usage counter: %w", err)
	}
	return model.ToDomain(), nil
}

// Increment adds one event to the period's counter.
//
// The relative UPDATE takes the row lock, so concurrent increments queue
// behind each other instead of overwriting a stale read. The cost is then
// derived from the locked count and written in the same transaction.
// Called on a transaction handle this runs inside a savepoint.
func (r *GormUsageCounterRepository) Increment(ctx context.Context, userID uuid.UUID, period billing.BillingPeriod, rate decimal.Decimal) (*billing.UsageCounter, error) {
	var counter *billing.UsageCounter

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensure(tx, userID, period); err != nil {
			return fmt.Errorf("failed to create usage counter: %w", err)
		}

		result := tx.Model(&models.UsageCounterModel{}).
			Scopes(periodScope(userID, period)).
			Updates(map[string]any{
				"event_count": gorm.Expr("event_count + 1"),
				"updated_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to increment usage counter: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("usage counter %s for user %s not found after upsert", period, userID)
		}

		var model models.UsageCounterModel
		if err := tx.Scopes(periodScope(userID, period)).First(&model).Error; err != nil {
			return fmt.Errorf("failed to reload usage counter: %w", err)
		}

		cost := billing.EstimateCost(model.EventCount, rate)
		if err := tx.Model(&models.UsageCounterModel{}).
			Where("id = ?", model.ID).
			Update("estimated_cost", cost).Error; err != nil {
			return fmt.Errorf("failed to update estimated cost: %w", err)
		}

		model.EstimatedCost = cost
		counter = model.ToDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counter, nil
}

// FindHistory returns up to limit counters, newest period first
func (r *GormUsageCounterRepository) FindHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*billing.UsageCounter, error) {
	var rows []models.UsageCounterModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC").
		Order("month DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counters := make([]*billing.UsageCounter, 0, len(rows))
	for i := range rows {
		counters = append(counters, rows[i].ToDomain())
	}
	return counters, nil
}

var _ billing.UsageCounterRepository = (*GormUsageCounterRepository)(nil)
