package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WebhookEvent is the write-once audit record of an inbound webhook
type WebhookEvent struct {
	ID          uuid.UUID
	StoreID     uuid.UUID
	Marketplace Marketplace
	RawPayload  []byte
	Verified    bool
	Processed   bool
	OrderID     *string
	CreatedAt   time.Time
}

// NewWebhookEvent creates an audit record. The payload is kept byte for byte.
func NewWebhookEvent(storeID uuid.UUID, marketplace Marketplace, raw []byte, verified, processed bool, orderID string) *WebhookEvent {
	ev := &WebhookEvent{
		ID:          uuid.New(),
		StoreID:     storeID,
		Marketplace: marketplace,
		RawPayload:  append([]byte(nil), raw...),
		Verified:    verified,
		Processed:   processed,
		CreatedAt:   time.Now().UTC(),
	}
	if orderID != "" {
		ev.OrderID = &orderID
	}
	return ev
}

// WebhookEventRepository appends audit records
type WebhookEventRepository interface {
	Create(ctx context.Context, event *WebhookEvent) error
	// FindByStore lists a store's most recent deliveries
	FindByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]*WebhookEvent, error)
}
