package models

import (
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingAccountModel is the persistence model for BillingAccount.
// user_id is unique: one billing account per user.
type BillingAccountModel struct {
	BaseModel
	UserID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	Status    billing.AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	FreeQuota int64                 `gorm:"not null;default:100"`
}

// TableName returns the table name for GORM
func (BillingAccountModel) TableName() string {
	return "billing_accounts"
}

// ToDomain converts the persistence model to a domain BillingAccount
func (m *BillingAccountModel) ToDomain() *billing.BillingAccount {
	return &billing.BillingAccount{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Status:     m.Status,
		FreeQuota:  m.FreeQuota,
	}
}

// BillingAccountModelFromDomain creates a persistence model from a domain BillingAccount
func BillingAccountModelFromDomain(a *billing.BillingAccount) *BillingAccountModel {
	m := &BillingAccountModel{
		UserID:    a.UserID,
		Status:    a.Status,
		FreeQuota: a.FreeQuota,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// UsageCounterModel is the persistence model for UsageCounter.
// (user_id, year, month) is unique.
type UsageCounterModel struct {
	BaseModel
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_usage_counters_user_period,priority:1"`
	Year          int             `gorm:"not null;uniqueIndex:idx_usage_counters_user_period,priority:2"`
	Month         int             `gorm:"not null;uniqueIndex:idx_usage_counters_user_period,priority:3"`
	EventCount    int64           `gorm:"not null;default:0"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (UsageCounterModel) TableName() string {
	return "usage_counters"
}

// ToDomain converts the persistence model to a domain UsageCounter
func (m *UsageCounterModel) ToDomain() *billing.UsageCounter {
	return &billing.UsageCounter{
		BaseEntity:    m.BaseModel.ToDomain(),
		UserID:        m.UserID,
		Period:        billing.BillingPeriod{Year: m.Year, Month: m.Month},
		EventCount:    m.EventCount,
		EstimatedCost: m.EstimatedCost,
	}
}

// UsageCounterModelFromDomain creates a persistence model from a domain UsageCounter
func UsageCounterModelFromDomain(c *billing.UsageCounter) *UsageCounterModel {
	m := &UsageCounterModel{
		UserID:        c.UserID,
		Year:          c.Period.Year,
		Month:         c.Period.Month,
		EventCount:    c.EventCount,
		EstimatedCost: c.EstimatedCost,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
