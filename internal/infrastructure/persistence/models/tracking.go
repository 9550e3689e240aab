package models

import (
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/google/uuid"
)

// StoreModel is the persistence model for Store.
type StoreModel struct {
	BaseModel
	UserID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	Marketplace   tracking.Marketplace `gorm:"column:marketplace_type;type:varchar(20);not null"`
	Name          string               `gorm:"type:varchar(100);not null"`
	URL           string               `gorm:"column:store_url;type:varchar(500);not null"`
	Status        tracking.StoreStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	WebhookSecret string               `gorm:"type:varchar(128);not null"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store
func (m *StoreModel) ToDomain() *tracking.Store {
	return &tracking.Store{
		BaseEntity:    m.BaseModel.ToDomain(),
		UserID:        m.UserID,
		Marketplace:   m.Marketplace,
		Name:          m.Name,
		URL:           m.URL,
		Status:        m.Status,
		WebhookSecret: m.WebhookSecret,
	}
}

// StoreModelFromDomain creates a persistence model from a domain Store
func StoreModelFromDomain(s *tracking.Store) *StoreModel {
	m := &StoreModel{
		UserID:        s.UserID,
		Marketplace:   s.Marketplace,
		Name:          s.Name,
		URL:           s.URL,
		Status:        s.Status,
		WebhookSecret: s.WebhookSecret,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// TrackedEventModel is the persistence model for TrackedEvent.
// The (user_id, source, order_id) unique index is the authoritative dedup guard;
// rows without an order id never collide because NULLs are distinct.
type TrackedEventModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_tracked_events_dedup,priority:1;index:idx_tracked_events_user_created,priority:1"`
	Source    tracking.Source `gorm:"type:varchar(32);not null;uniqueIndex:idx_tracked_events_dedup,priority:2"`
	EventType string          `gorm:"type:varchar(100);not null"`
	OrderID   *string         `gorm:"type:varchar(255);uniqueIndex:idx_tracked_events_dedup,priority:3"`
	CreatedAt time.Time       `gorm:"not null;index:idx_tracked_events_user_created,priority:2"`
}

// TableName returns the table name for GORM
func (TrackedEventModel) TableName() string {
	return "tracked_events"
}

// ToDomain converts the persistence model to a domain TrackedEvent
func (m *TrackedEventModel) ToDomain() *tracking.TrackedEvent {
	return &tracking.TrackedEvent{
		ID:        m.ID,
		UserID:    m.UserID,
		Source:    m.Source,
		EventType: m.EventType,
		OrderID:   m.OrderID,
		CreatedAt: m.CreatedAt,
	}
}

// TrackedEventModelFromDomain creates a persistence model from a domain TrackedEvent
func TrackedEventModelFromDomain(e *tracking.TrackedEvent) *TrackedEventModel {
	return &TrackedEventModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Source:    e.Source,
		EventType: e.EventType,
		OrderID:   e.OrderID,
		CreatedAt: e.CreatedAt,
	}
}

// WebhookEventModel is the append-only audit row of an inbound webhook.
// store_id carries no foreign key so audit rows outlive deleted stores.
type WebhookEventModel struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key"`
	StoreID     uuid.UUID            `gorm:"type:uuid;not null;index:idx_webhook_events_store_created,priority:1"`
	Marketplace tracking.Marketplace `gorm:"column:marketplace_type;type:varchar(20);not null"`
	RawPayload  []byte               `gorm:"not null"`
	Verified    bool                 `gorm:"not null;default:false"`
	Processed   bool                 `gorm:"not null;default:false"`
	OrderID     *string              `gorm:"type:varchar(255)"`
	CreatedAt   time.Time            `gorm:"not null;index:idx_webhook_events_store_created,priority:2"`
}

// TableName returns the table name for GORM
func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

// ToDomain converts the persistence model to a domain WebhookEvent
func (m *WebhookEventModel) ToDomain() *tracking.WebhookEvent {
	return &tracking.WebhookEvent{
		ID:          m.ID,
		StoreID:     m.StoreID,
		Marketplace: m.Marketplace,
		RawPayload:  m.RawPayload,
		Verified:    m.Verified,
		Processed:   m.Processed,
		OrderID:     m.OrderID,
		CreatedAt:   m.CreatedAt,
	}
}

// WebhookEventModelFromDomain creates a persistence model from a domain WebhookEvent
func WebhookEventModelFromDomain(e *tracking.WebhookEvent) *WebhookEventModel {
	return &WebhookEventModel{
		ID:          e.ID,
		StoreID:     e.StoreID,
		Marketplace: e.Marketplace,
		RawPayload:  e.RawPayload,
		Verified:    e.Verified,
		Processed:   e.Processed,
		OrderID:     e.OrderID,
		CreatedAt:   e.CreatedAt,
	}
}
