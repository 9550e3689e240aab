package persistence

import (
	"context"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWebhookEventRepository implements WebhookEventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Create appends an audit row
func (r *GormWebhookEventRepository) Create(ctx context.Context, event *tracking.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(models.WebhookEventModelFromDomain(event)).Error
}

// FindByStore lists the most recent deliveries for a store
func (r *GormWebhookEventRepository) FindByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]*tracking.WebhookEvent, error) {
	var rows []models.WebhookEventModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]*tracking.WebhookEvent, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].ToDomain())
	}
	return events, nil
}

var _ tracking.WebhookEventRepository = (*GormWebhookEventRepository)(nil)
