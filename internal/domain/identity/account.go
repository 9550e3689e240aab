package identity

import (
	"context"
	"strings"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountStatus represents the status of an account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// IsValid reports whether the status is a known value
func (s AccountStatus) IsValid() bool {
	return s == AccountStatusActive || s == AccountStatusSuspended
}

// Account is the authenticated principal as seen by this service.
// Accounts are provisioned by the identity provider and are read-only here.
type Account struct {
	shared.BaseEntity
	Email  string
	Status AccountStatus
}

// NewAccount creates an active account
func NewAccount(email string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is invalid")
	}
	return &Account{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Status:     AccountStatusActive,
	}, nil
}

// IsSuspended reports whether event tracking must be refused for this account
func (a *Account) IsSuspended() bool {
	return a.Status == AccountStatusSuspended
}

// Suspend marks the account suspended
func (a *Account) Suspend() {
	a.Status = AccountStatusSuspended
	a.UpdatedAt = time.Now().UTC()
}

// AccountRepository reads accounts owned by the identity provider
type AccountRepository interface {
	// FindByID returns shared.ErrNotFound when the account does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Save creates or replaces an account. Used by provisioning and tests.
	Save(ctx context.Context, account *Account) error
}
