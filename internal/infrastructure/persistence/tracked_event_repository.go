package persistence

import (
	"context"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrackedEventRepository implements TrackedEventRepository using GORM
type GormTrackedEventRepository struct {
	db *gorm.DB
}

// NewGormTrackedEventRepository creates a new GormTrackedEventRepository
func NewGormTrackedEventRepository(db *gorm.DB) *GormTrackedEventRepository {
	return &GormTrackedEventRepository{db: db}
}

// Create inserts a tracked event, mapping dedup index violations to ErrDuplicateOrder
func (r *GormTrackedEventRepository) Create(ctx context.Context, event *tracking.TrackedEvent) error {
	err := r.db.WithContext(ctx).Create(models.TrackedEventModelFromDomain(event)).Error
	if isDuplicateKeyError(err) {
		return tracking.ErrDuplicateOrder
	}
	return err
}

// ExistsForOrder reports whether the order was already tracked
func (r *GormTrackedEventRepository) ExistsForOrder(ctx context.Context, userID uuid.UUID, source tracking.Source, orderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TrackedEventModel{}).
		Where("user_id = ? AND source = ? AND order_id = ?", userID, source, orderID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByUser counts every event tracked for the user
func (r *GormTrackedEventRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TrackedEventModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

var _ tracking.TrackedEventRepository = (*GormTrackedEventRepository)(nil)
