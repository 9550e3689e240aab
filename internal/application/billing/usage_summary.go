package billing

import (
	"context"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/google/uuid"
)

// CurrentUsageSummary combines the current counter with the billing state
type CurrentUsageSummary struct {
	Counter        *billing.UsageCounter
	Billing        *BillingStatus
	RemainingQuota int64
}

// UsageQueryService answers the usage read endpoints
type UsageQueryService struct {
	ledger *UsageLedger
	gate   *BillingGate
}

// NewUsageQueryService creates a new UsageQueryService
func NewUsageQueryService(ledger *UsageLedger, gate *BillingGate) *UsageQueryService {
	return &UsageQueryService{ledger: ledger, gate: gate}
}

// Current returns this period's usage plus billing status and remaining quota
func (s *UsageQueryService) Current(ctx context.Context, userID uuid.UUID) (*CurrentUsageSummary, error) {
	counter, err := s.ledger.GetCurrentPeriodUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	status, err := s.gate.GetBillingStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CurrentUsageSummary{
		Counter:        counter,
		Billing:        status,
		RemainingQuota: s.gate.GetRemainingQuota(status.FreeQuota, counter.EventCount),
	}, nil
}

// History returns up to limit periods, newest first
func (s *UsageQueryService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*billing.UsageCounter, error) {
	return s.ledger.GetHistory(ctx, userID, limit)
}
