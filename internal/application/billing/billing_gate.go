package billing

import (
	"context"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillingStatus summarizes a user's billing account
type BillingStatus struct {
	Status    billing.AccountStatus
	FreeQuota int64
	IsActive  bool
}

// BillingGate decides whether a user may record more events
type BillingGate struct {
	accounts  billing.BillingAccountRepository
	freeQuota int64
	logger    *zap.Logger
}

// NewBillingGate creates a new BillingGate. freeQuota seeds lazily created accounts.
func NewBillingGate(accounts billing.BillingAccountRepository, freeQuota int64, logger *zap.Logger) *BillingGate {
	if freeQuota <= 0 {
		freeQuota = billing.DefaultFreeQuota
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingGate{accounts: accounts, freeQuota: freeQuota, logger: logger}
}

// Account returns the user's billing account, creating it on first access
func (g *BillingGate) Account(ctx context.Context, userID uuid.UUID) (*billing.BillingAccount, error) {
	return g.accounts.GetOrCreate(ctx, userID, g.freeQuota)
}

// CanTrackEvent decides admission for one more event given current usage.
// Only inactive accounts at or above their free quota are denied.
func (g *BillingGate) CanTrackEvent(ctx context.Context, userID uuid.UUID, currentUsage int64) (billing.QuotaDecision, error) {
	account, err := g.Account(ctx, userID)
	if err != nil {
		return billing.QuotaDecision{}, err
	}
	return g.Admit(account, currentUsage), nil
}

// Admit applies the admission rule to an already loaded account. It does no
// I/O, so it is safe to call while holding the usage row lock.
func (g *BillingGate) Admit(account *billing.BillingAccount, currentUsage int64) billing.QuotaDecision {
	decision := account.CanTrack(currentUsage)
	if !decision.Allowed {
		g.logger.Info("Event tracking denied by quota",
			zap.String("user_id", account.UserID.String()),
			zap.Int64("usage", currentUsage),
			zap.Int64("free_quota", account.FreeQuota))
	}
	return decision
}

// GetRemainingQuota returns max(freeQuota - used, 0)
func (g *BillingGate) GetRemainingQuota(freeQuota, used int64) int64 {
	return billing.RemainingQuota(freeQuota, used)
}

// GetBillingStatus returns the user's billing status, creating the account if needed
func (g *BillingGate) GetBillingStatus(ctx context.Context, userID uuid.UUID) (*BillingStatus, error) {
	account, err := g.Account(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BillingStatus{
		Status:    account.Status,
		FreeQuota: account.FreeQuota,
		IsActive:  account.IsActive(),
	}, nil
}
