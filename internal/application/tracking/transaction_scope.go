package tracking

import (
	"context"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// TransactionScope provides transactional access to the event and usage repositories.
// Every repository handed to fn shares one database transaction, committed
// when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories written by event recording.
type TransactionalRepositories interface {
	// TrackedEvents returns the tracked event repository scoped to the current transaction
	TrackedEvents() tracking.TrackedEventRepository
	// WebhookEvents returns the webhook audit repository scoped to the current transaction
	WebhookEvents() tracking.WebhookEventRepository
	// UsageCounters returns the usage counter repository scoped to the current transaction
	UsageCounters() billing.UsageCounterRepository
}
