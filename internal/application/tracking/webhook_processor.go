package tracking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/identity"
	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookRequest is one inbound delivery as received from the transport
type WebhookRequest struct {
	Marketplace string
	StoreID     string
	RawBody     []byte
	Header      http.Header
	Query       url.Values
}

// WebhookProcessor authenticates, classifies and records marketplace webhooks.
//
// Checks run in a fixed order and the first failing one decides the outcome:
// store exists, marketplace matches, signature verifies, order paid, not a
// test, store enabled, owner not suspended, order not yet tracked.
type WebhookProcessor struct {
	stores   tracking.StoreRepository
	accounts identity.AccountRepository
	audit    tracking.WebhookEventRepository
	registry tracking.MarketplaceRegistry
	scope    TransactionScope
	ledger   *appbilling.UsageLedger
	logger   *zap.Logger

	dedup    shared.IdempotencyStore
	dedupTTL time.Duration
	archive  PayloadArchive
	recorder OutcomeRecorder
}

// WebhookProcessorOption configures optional collaborators
type WebhookProcessorOption func(*WebhookProcessor)

// WithDeliveryDedup enables the delivery dedup fast path. The database
// unique index remains the authoritative guard.
func WithDeliveryDedup(store shared.IdempotencyStore, ttl time.Duration) WebhookProcessorOption {
	return func(p *WebhookProcessor) {
		p.dedup = store
		p.dedupTTL = ttl
	}
}

// WithPayloadArchive copies verified bodies to an archive
func WithPayloadArchive(archive PayloadArchive) WebhookProcessorOption {
	return func(p *WebhookProcessor) {
		p.archive = archive
	}
}

// WithOutcomeRecorder reports outcomes to metrics
func WithOutcomeRecorder(recorder OutcomeRecorder) WebhookProcessorOption {
	return func(p *WebhookProcessor) {
		p.recorder = recorder
	}
}

// NewWebhookProcessor creates a new WebhookProcessor
func NewWebhookProcessor(
	stores tracking.StoreRepository,
	accounts identity.AccountRepository,
	audit tracking.WebhookEventRepository,
	registry tracking.MarketplaceRegistry,
	scope TransactionScope,
	ledger *appbilling.UsageLedger,
	logger *zap.Logger,
	opts ...WebhookProcessorOption,
) *WebhookProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &WebhookProcessor{
		stores:   stores,
		accounts: accounts,
		audit:    audit,
		registry: registry,
		scope:    scope,
		ledger:   ledger,
		logger:   logger,
		dedupTTL: shared.DefaultIdempotencyConfig().TTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process handles one delivery. Business non-events come back as IGNORED
// outcomes; only unexpected persistence failures return an error.
func (p *WebhookProcessor) Process(ctx context.Context, req WebhookRequest) (*Outcome, error) {
	log := p.logger.With(
		zap.String("store_id", req.StoreID),
		zap.String("marketplace", req.Marketplace),
	)

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		log.Warn("Webhook for malformed store id")
		return p.finish(ctx, req.Marketplace, rejected(ReasonStoreNotFound, http.StatusNotFound)), nil
	}

	store, err := p.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Webhook for unknown store")
			return p.finish(ctx, req.Marketplace, rejected(ReasonStoreNotFound, http.StatusNotFound)), nil
		}
		return nil, fmt.Errorf("load store: %w", err)
	}

	marketplace, ok := tracking.ParseMarketplace(req.Marketplace)
	if !ok || marketplace != store.Marketplace {
		log.Warn("Webhook marketplace does not match store",
			zap.String("expected", store.Marketplace.String()))
		return p.finish(ctx, req.Marketplace, rejected(ReasonMarketplaceMismatch, http.StatusBadRequest)), nil
	}

	adapter, ok := p.registry.Adapter(marketplace)
	if !ok {
		log.Error("No adapter registered for marketplace")
		return p.finish(ctx, req.Marketplace, rejected(ReasonMarketplaceMismatch, http.StatusBadRequest)), nil
	}

	supplied := adapter.SuppliedSignature(req.Header, req.Query)
	if !adapter.VerifySignature(req.RawBody, supplied, store.WebhookSecret) {
		log.Warn("Webhook signature verification failed", zap.Bool("signature_present", supplied != ""))
		p.saveAudit(ctx, log, tracking.NewWebhookEvent(store.ID, marketplace, req.RawBody, false, false, ""))
		reason := ReasonInvalidSignature
		if marketplace == tracking.MarketplaceMagento {
			reason = ReasonInvalidSecret
		}
		return p.finish(ctx, req.Marketplace, rejected(reason, http.StatusUnauthorized)), nil
	}

	payload, err := tracking.DecodeOrderPayload(req.RawBody)
	if err != nil {
		log.Warn("Verified webhook body is not a JSON object", zap.Error(err))
	}
	facts := p.registry.Extract(marketplace, payload)
	log = log.With(zap.String("user_id", store.UserID.String()), zap.String("order_id", facts.OrderID))

	if reason, err := p.ruleOut(ctx, store, facts); err != nil {
		return nil, err
	} else if reason != "" {
		return p.ignore(ctx, log, store, marketplace, req.RawBody, facts, reason), nil
	}

	source := tracking.SourceFromMarketplace(marketplace)
	dedupKey := deliveryKey(store.UserID, source, facts.OrderID)
	if facts.HasID && p.dedup != nil {
		seen, err := p.dedup.IsProcessed(ctx, dedupKey)
		if err != nil {
			log.Warn("Delivery dedup lookup failed, relying on database", zap.Error(err))
		} else if seen {
			return p.ignore(ctx, log, store, marketplace, req.RawBody, facts, ReasonDuplicateOrder), nil
		}
	}

	outcome, err := p.commit(ctx, store, marketplace, source, req.RawBody, facts)
	if errors.Is(err, tracking.ErrDuplicateOrder) {
		p.markDelivered(ctx, log, facts, dedupKey)
		return p.ignore(ctx, log, store, marketplace, req.RawBody, facts, ReasonDuplicateOrder), nil
	}
	if err != nil {
		log.Error("Failed to record webhook", zap.Error(err))
		return nil, err
	}

	p.markDelivered(ctx, log, facts, dedupKey)
	p.archivePayload(ctx, log, store.ID, marketplace, *outcome.WebhookEventID, req.RawBody)
	if p.recorder != nil {
		p.recorder.RecordTrackedEvent(ctx, source.String())
	}
	log.Info("Webhook processed",
		zap.String("tracked_event_id", outcome.TrackedEventID.String()),
		zap.Int64("event_count", outcome.Usage.EventCount))
	return p.finish(ctx, req.Marketplace, outcome), nil
}

// ruleOut applies the business rules in order and returns the first ignore reason
func (p *WebhookProcessor) ruleOut(ctx context.Context, store *tracking.Store, facts tracking.OrderFacts) (string, error) {
	switch {
	case !facts.Paid:
		return ReasonOrderNotPaid, nil
	case facts.Test:
		return ReasonTestEvent, nil
	case store.IsDisabled():
		return ReasonStoreDisabled, nil
	}

	owner, err := p.accounts.FindByID(ctx, store.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ReasonOwnerNotFound, nil
		}
		return "", fmt.Errorf("load store owner: %w", err)
	}
	if owner.IsSuspended() {
		return ReasonUserSuspended, nil
	}
	return "", nil
}

// commit writes the audit row, the tracked event and the usage increment in one transaction
func (p *WebhookProcessor) commit(
	ctx context.Context,
	store *tracking.Store,
	marketplace tracking.Marketplace,
	source tracking.Source,
	raw []byte,
	facts tracking.OrderFacts,
) (*Outcome, error) {
	var (
		audit   *tracking.WebhookEvent
		event   *tracking.TrackedEvent
		counter *billing.UsageCounter
	)

	err := p.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if facts.HasID {
			exists, err := repos.TrackedEvents().ExistsForOrder(ctx, store.UserID, source, facts.OrderID)
			if err != nil {
				return fmt.Errorf("check duplicate order: %w", err)
			}
			if exists {
				return tracking.ErrDuplicateOrder
			}
		}

		audit = tracking.NewWebhookEvent(store.ID, marketplace, raw, true, true, facts.OrderID)
		if err := repos.WebhookEvents().Create(ctx, audit); err != nil {
			return fmt.Errorf("save webhook event: %w", err)
		}

		var err error
		event, err = tracking.NewTrackedEvent(store.UserID, source, tracking.EventTypeOrderCreated, facts.OrderID)
		if err != nil {
			return err
		}
		if err := repos.TrackedEvents().Create(ctx, event); err != nil {
			if errors.Is(err, tracking.ErrDuplicateOrder) {
				return err
			}
			return fmt.Errorf("save tracked event: %w", err)
		}

		counter, err = p.ledger.WithRepository(repos.UsageCounters()).IncrementUsage(ctx, store.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:           OutcomeProcessed,
		HTTPStatus:     http.StatusOK,
		WebhookEventID: &audit.ID,
		TrackedEventID: &event.ID,
		OrderID:        facts.OrderID,
		Usage:          counter,
	}, nil
}

// ignore records a verified but unprocessed audit row and returns the IGNORED outcome
func (p *WebhookProcessor) ignore(
	ctx context.Context,
	log *zap.Logger,
	store *tracking.Store,
	marketplace tracking.Marketplace,
	raw []byte,
	facts tracking.OrderFacts,
	reason string,
) *Outcome {
	audit := tracking.NewWebhookEvent(store.ID, marketplace, raw, true, false, facts.OrderID)
	var auditID *uuid.UUID
	if p.saveAudit(ctx, log, audit) {
		auditID = &audit.ID
		p.archivePayload(ctx, log, store.ID, marketplace, audit.ID, raw)
	}
	log.Info("Webhook ignored", zap.String("reason", reason))
	return p.finish(ctx, marketplace.String(), ignored(reason, facts.OrderID, auditID))
}

// saveAudit writes an audit row outside any transaction. Failures are logged;
// the delivery outcome does not depend on the audit trail.
func (p *WebhookProcessor) saveAudit(ctx context.Context, log *zap.Logger, event *tracking.WebhookEvent) bool {
	if err := p.audit.Create(ctx, event); err != nil {
		log.Error("Failed to save webhook audit event", zap.Error(err))
		return false
	}
	return true
}

func (p *WebhookProcessor) markDelivered(ctx context.Context, log *zap.Logger, facts tracking.OrderFacts, key string) {
	if !facts.HasID || p.dedup == nil {
		return
	}
	if _, err := p.dedup.MarkProcessed(ctx, key, p.dedupTTL); err != nil {
		log.Warn("Failed to mark delivery processed", zap.Error(err))
	}
}

func (p *WebhookProcessor) archivePayload(ctx context.Context, log *zap.Logger, storeID uuid.UUID, marketplace tracking.Marketplace, eventID uuid.UUID, raw []byte) {
	if p.archive == nil {
		return
	}
	key := ArchiveKey(marketplace, storeID, eventID, time.Now().UTC())
	if err := p.archive.Archive(ctx, key, raw); err != nil {
		log.Warn("Failed to archive webhook payload", zap.String("key", key), zap.Error(err))
	}
}

func (p *WebhookProcessor) finish(ctx context.Context, marketplace string, o *Outcome) *Outcome {
	if p.recorder != nil {
		label := "unknown"
		if m, ok := tracking.ParseMarketplace(marketplace); ok {
			label = m.PathSegment()
		}
		p.recorder.RecordWebhookOutcome(ctx, label, o.Kind, o.Reason)
	}
	return o
}

// ArchiveKey builds the object key of an archived payload
func ArchiveKey(marketplace tracking.Marketplace, storeID, eventID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s.json", marketplace.PathSegment(), storeID, at.Format("2006/01/02"), eventID)
}

// deliveryKey identifies an order delivery for the dedup fast path
func deliveryKey(userID uuid.UUID, source tracking.Source, orderID string) string {
	return fmt.Sprintf("order:%s:%s:%s", userID, source, orderID)
}
