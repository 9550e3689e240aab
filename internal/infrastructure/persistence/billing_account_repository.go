package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillingAccountRepository implements BillingAccountRepository using GORM
type GormBillingAccountRepository struct {
	db *gorm.DB
}

// NewGormBillingAccountRepository creates a new GormBillingAccountRepository
func NewGormBillingAccountRepository(db *gorm.DB) *GormBillingAccountRepository {
	return &GormBillingAccountRepository{db: db}
}

// GetOrCreate inserts a default account unless one exists, then reads the winner.
// ON CONFLICT DO NOTHING makes concurrent first touches converge on one row.
func (r *GormBillingAccountRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, freeQuota int64) (*billing.BillingAccount, error) {
	account, err := billing.NewBillingAccount(userID, freeQuota)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(models.BillingAccountModelFromDomain(account)).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert billing account: %w", err)
	}

	var model models.BillingAccountModel
	if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to load billing account: %w", err)
	}
	return model.ToDomain(), nil
}

// UpdateStatus changes the activation state of an existing account
func (r *GormBillingAccountRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, status billing.AccountStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid billing status: %s", status))
	}
	result := r.db.WithContext(ctx).
		Model(&models.BillingAccountModel{}).
		Where("user_id = ?", userID).
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

var _ billing.BillingAccountRepository = (*GormBillingAccountRepository)(nil)
