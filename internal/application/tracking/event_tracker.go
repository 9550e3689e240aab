package tracking

import (
	"context"
	"errors"
	"fmt"

	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/identity"
	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by EventTracker
var (
	ErrAccountSuspended = shared.NewDomainError(shared.ErrForbidden.Code, "Account suspended. Event tracking is disabled.")
	ErrQuotaExceeded    = shared.NewDomainError(shared.ErrPaymentRequired.Code, billing.QuotaExceededReason)
)

// TrackEventInput is a manually reported event
type TrackEventInput struct {
	UserID    uuid.UUID
	Source    tracking.Source
	EventType string
}

// TrackEventResult is the recorded event and the usage after it
type TrackEventResult struct {
	Event *tracking.TrackedEvent
	Usage *billing.UsageCounter
}

// EventTracker records events reported through the authenticated API
type EventTracker struct {
	accounts identity.AccountRepository
	gate     *appbilling.BillingGate
	ledger   *appbilling.UsageLedger
	scope    TransactionScope
	recorder OutcomeRecorder
	logger   *zap.Logger
}

// NewEventTracker creates a new EventTracker. recorder may be nil.
func NewEventTracker(
	accounts identity.AccountRepository,
	gate *appbilling.BillingGate,
	ledger *appbilling.UsageLedger,
	scope TransactionScope,
	recorder OutcomeRecorder,
	logger *zap.Logger,
) *EventTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventTracker{
		accounts: accounts,
		gate:     gate,
		ledger:   ledger,
		scope:    scope,
		recorder: recorder,
		logger:   logger,
	}
}

// Track records one event.
// Suspended accounts are refused before any usage is read; otherwise the
// billing gate decides, and the event row and usage increment commit together.
func (t *EventTracker) Track(ctx context.Context, input TrackEventInput) (*TrackEventResult, error) {
	log := t.logger.With(zap.String("user_id", input.UserID.String()), zap.String("source", input.Source.String()))

	account, err := t.accounts.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Account not found")
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account.IsSuspended() {
		log.Warn("Suspended account attempted to track event")
		return nil, ErrAccountSuspended
	}

	event, err := tracking.NewTrackedEvent(input.UserID, input.Source, input.EventType, "")
	if err != nil {
		return nil, err
	}

	current, err := t.ledger.GetCurrentPeriodUsage(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load current usage: %w", err)
	}
	billingAccount, err := t.gate.Account(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("check quota: %w", err)
	}
	if decision := t.gate.Admit(billingAccount, current.EventCount); !decision.Allowed {
		return nil, shared.NewDomainError(ErrQuotaExceeded.Code, decision.Reason)
	}

	var counter *billing.UsageCounter
	err = t.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.TrackedEvents().Create(ctx, event); err != nil {
			return fmt.Errorf("save tracked event: %w", err)
		}
		var err error
		counter, err = t.ledger.WithRepository(repos.UsageCounters()).IncrementUsage(ctx, input.UserID)
		if err != nil {
			return err
		}
		// The increment holds the counter row, so concurrent requests that all
		// passed the check above are admitted one at a time here.
		if decision := t.gate.Admit(billingAccount, counter.EventCount-1); !decision.Allowed {
			return shared.NewDomainError(ErrQuotaExceeded.Code, decision.Reason)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrPaymentRequired) {
			return nil, err
		}
		log.Error("Failed to track event", zap.Error(err))
		return nil, err
	}

	if t.recorder != nil {
		t.recorder.RecordTrackedEvent(ctx, input.Source.String())
	}
	log.Info("Event tracked",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.Int64("event_count", counter.EventCount))

	return &TrackEventResult{Event: event, Usage: counter}, nil
}
