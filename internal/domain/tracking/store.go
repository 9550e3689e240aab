package tracking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/google/uuid"
)

// webhookSecretBytes is the entropy of a generated store secret
const webhookSecretBytes = 32

// StoreStatus represents whether a store accepts webhooks
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "ACTIVE"
	StoreStatusDisabled StoreStatus = "DISABLED"
)

// IsValid checks if the status is valid
func (s StoreStatus) IsValid() bool {
	return s == StoreStatusActive || s == StoreStatusDisabled
}

// Store is a merchant's connected storefront
type Store struct {
	shared.BaseEntity
	UserID        uuid.UUID
	Marketplace   Marketplace
	Name          string
	URL           string
	Status        StoreStatus
	WebhookSecret string
}

// NewStore validates input and creates an active store with a fresh webhook secret
func NewStore(userID uuid.UUID, marketplace Marketplace, name, storeURL string) (*Store, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !marketplace.IsValid() {
		return nil, shared.NewDomainError("INVALID_MARKETPLACE", fmt.Sprintf("Invalid marketplace type: %s", marketplace))
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name must be 1-100 characters")
	}
	storeURL = strings.TrimSpace(storeURL)
	if !isHTTPURL(storeURL) {
		return nil, shared.NewDomainError("INVALID_URL", "Store URL must be a valid http(s) URL")
	}

	secret, err := GenerateWebhookSecret()
	if err != nil {
		return nil, err
	}

	return &Store{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		Marketplace:   marketplace,
		Name:          name,
		URL:           storeURL,
		Status:        StoreStatusActive,
		WebhookSecret: secret,
	}, nil
}

// GenerateWebhookSecret returns 32 random bytes, hex encoded
func GenerateWebhookSecret() (string, error) {
	buf := make([]byte, webhookSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsDisabled reports whether webhooks for this store must be ignored
func (s *Store) IsDisabled() bool {
	return s.Status == StoreStatusDisabled
}

// OwnedBy reports whether the user owns the store
func (s *Store) OwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}

// SetStatus changes the store status
func (s *Store) SetStatus(status StoreStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid store status: %s", status))
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// StoreRepository persists stores
type StoreRepository interface {
	// FindByID returns shared.ErrNotFound when the store does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	// FindByUser lists a user's stores, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Store, error)
	Create(ctx context.Context, store *Store) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status StoreStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
