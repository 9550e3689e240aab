package billing

import (
	"context"
	"errors"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultFreeQuota is the number of events an inactive account may record per period
const DefaultFreeQuota int64 = 100

// QuotaExceededReason is returned when an inactive account has used its free quota
const QuotaExceededReason = "Free quota exceeded. Please activate your billing account."

// ErrInvalidUserID is returned when a user ID is empty
var ErrInvalidUserID = errors.New("billing: user ID cannot be empty")

// AccountStatus is the billing activation state
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// String returns the string representation
func (s AccountStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s AccountStatus) IsValid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// BillingAccount holds the billing state of one user.
// At most one exists per user; it is created on first lookup.
type BillingAccount struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Status    AccountStatus
	FreeQuota int64
}

// NewBillingAccount creates an active billing account with the given free quota.
// A non-positive quota falls back to DefaultFreeQuota.
func NewBillingAccount(userID uuid.UUID, freeQuota int64) (*BillingAccount, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if freeQuota <= 0 {
		freeQuota = DefaultFreeQuota
	}
	return &BillingAccount{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Status:     AccountStatusActive,
		FreeQuota:  freeQuota,
	}, nil
}

// IsActive reports whether billing is activated
func (a *BillingAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CanTrack decides admission for one more event given the events used so far.
// Active accounts are never denied here; overage is settled by invoicing.
func (a *BillingAccount) CanTrack(used int64) QuotaDecision {
	if a.Status == AccountStatusInactive && used >= a.FreeQuota {
		return QuotaDecision{Allowed: false, Reason: QuotaExceededReason}
	}
	return QuotaDecision{Allowed: true}
}

// RemainingQuota returns the free events left for the given usage
func (a *BillingAccount) RemainingQuota(used int64) int64 {
	return RemainingQuota(a.FreeQuota, used)
}

// RemainingQuota returns max(freeQuota - used, 0)
func RemainingQuota(freeQuota, used int64) int64 {
	if used >= freeQuota {
		return 0
	}
	return freeQuota - used
}

// QuotaDecision is the result of an admission check
type QuotaDecision struct {
	Allowed bool
	Reason  string
}

// BillingAccountRepository persists billing accounts
type BillingAccountRepository interface {
	// GetOrCreate returns the user's billing account, atomically creating an
	// ACTIVE one with freeQuota when none exists. Concurrent first calls
	// converge on the same row.
	GetOrCreate(ctx context.Context, userID uuid.UUID, freeQuota int64) (*BillingAccount, error)

	// UpdateStatus changes the activation state
	UpdateStatus(ctx context.Context, userID uuid.UUID, status AccountStatus) error
}
