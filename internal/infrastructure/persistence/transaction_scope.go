package persistence

import (
	"context"

	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptracking.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) TrackedEvents() tracking.TrackedEventRepository {
	return NewGormTrackedEventRepository(r.tx)
}

func (r *gormTransactionalRepositories) WebhookEvents() tracking.WebhookEventRepository {
	return NewGormWebhookEventRepository(r.tx)
}

func (r *gormTransactionalRepositories) UsageCounters() billing.UsageCounterRepository {
	return NewGormUsageCounterRepository(r.tx)
}

var _ apptracking.TransactionScope = (*GormTransactionScope)(nil)
var _ apptracking.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
