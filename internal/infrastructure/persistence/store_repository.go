package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists a user's stores, newest first
func (r *GormStoreRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*tracking.Store, error) {
	var rows []models.StoreModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	stores := make([]*tracking.Store, 0, len(rows))
	for i := range rows {
		stores = append(stores, rows[i].ToDomain())
	}
	return stores, nil
}

// Create inserts a new store
func (r *GormStoreRepository) Create(ctx context.Context, store *tracking.Store) error {
	return r.db.WithContext(ctx).Create(models.StoreModelFromDomain(store)).Error
}

// UpdateStatus enables or disables a store
func (r *GormStoreRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status tracking.StoreStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a store. Audit rows referencing it are kept.
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StoreModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ tracking.StoreRepository = (*GormStoreRepository)(nil)
