package tracking

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/google/uuid"
)

// EventTypeOrderCreated is recorded for orders received by webhook
const EventTypeOrderCreated = "order_created"

// MaxEventTypeLength bounds the free-form event type, in characters
const MaxEventTypeLength = 100

// ErrDuplicateOrder is returned when (user, source, orderId) is already tracked
var ErrDuplicateOrder = errors.New("tracking: duplicate order")

// TrackedEvent is the accounting record of one billable action
type TrackedEvent struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Source    Source
	EventType string
	OrderID   *string
	CreatedAt time.Time
}

// NewTrackedEvent validates and creates a tracked event. orderID may be empty.
func NewTrackedEvent(userID uuid.UUID, source Source, eventType, orderID string) (*TrackedEvent, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid event source")
	}
	eventType = strings.TrimSpace(eventType)
	if eventType == "" || utf8.RuneCountInString(eventType) > MaxEventTypeLength {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Event type must be 1-100 characters")
	}

	ev := &TrackedEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Source:    source,
		EventType: eventType,
		CreatedAt: time.Now().UTC(),
	}
	if orderID != "" {
		ev.OrderID = &orderID
	}
	return ev, nil
}

// TrackedEventRepository persists tracked events
type TrackedEventRepository interface {
	// Create inserts the event. A clash on (user, source, orderId) returns ErrDuplicateOrder.
	Create(ctx context.Context, event *TrackedEvent) error

	// ExistsForOrder reports whether the order was already tracked for the user and source
	ExistsForOrder(ctx context.Context, userID uuid.UUID, source Source, orderID string) (bool, error)

	// CountByUser counts all events recorded for the user
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
