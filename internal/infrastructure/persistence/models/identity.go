package models

import (
	"github.com/siesson1991/adtracking-saas/internal/domain/identity"
)

// AccountModel is the persistence model for the Account entity.
type AccountModel struct {
	BaseModel
	Email  string                 `gorm:"type:varchar(255);not null;uniqueIndex"`
	Status identity.AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		Status:     m.Status,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *identity.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Email = a.Email
	m.Status = a.Status
}

// AccountModelFromDomain creates a persistence model from a domain Account
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
