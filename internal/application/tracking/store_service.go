package tracking

import (
	"context"
	"errors"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStoreNotFound is returned for missing stores and stores owned by someone else
var ErrStoreNotFound = shared.NewDomainError(shared.ErrNotFound.Code, "Store not found")

// DefaultDeliveryLimit is the number of audit rows returned per store
const DefaultDeliveryLimit = 50

// CreateStoreInput contains the fields needed to connect a storefront
type CreateStoreInput struct {
	UserID      uuid.UUID
	Marketplace tracking.Marketplace
	Name        string
	URL         string
}

// StoreService manages a user's connected storefronts
type StoreService struct {
	stores tracking.StoreRepository
	audit  tracking.WebhookEventRepository
	logger *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(stores tracking.StoreRepository, audit tracking.WebhookEventRepository, logger *zap.Logger) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{stores: stores, audit: audit, logger: logger}
}

// Create connects a new storefront and generates its webhook secret
func (s *StoreService) Create(ctx context.Context, input CreateStoreInput) (*tracking.Store, error) {
	store, err := tracking.NewStore(input.UserID, input.Marketplace, input.Name, input.URL)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	s.logger.Info("Store created",
		zap.String("store_id", store.ID.String()),
		zap.String("user_id", store.UserID.String()),
		zap.String("marketplace", store.Marketplace.String()))
	return store, nil
}

// List returns the user's stores
func (s *StoreService) List(ctx context.Context, userID uuid.UUID) ([]*tracking.Store, error) {
	return s.stores.FindByUser(ctx, userID)
}

// Get returns a store the user owns
func (s *StoreService) Get(ctx context.Context, userID, storeID uuid.UUID) (*tracking.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if !store.OwnedBy(userID) {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// UpdateStatus enables or disables a store the user owns
func (s *StoreService) UpdateStatus(ctx context.Context, userID, storeID uuid.UUID, status tracking.StoreStatus) (*tracking.Store, error) {
	store, err := s.Get(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if err := store.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.stores.UpdateStatus(ctx, store.ID, status); err != nil {
		return nil, err
	}
	s.logger.Info("Store status updated",
		zap.String("store_id", store.ID.String()),
		zap.String("status", string(status)))
	return store, nil
}

// Delete removes a store the user owns. Deliveries already in flight with a
// loaded copy of the store may still complete.
func (s *StoreService) Delete(ctx context.Context, userID, storeID uuid.UUID) error {
	store, err := s.Get(ctx, userID, storeID)
	if err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, store.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	s.logger.Info("Store deleted", zap.String("store_id", store.ID.String()))
	return nil
}

// RecentDeliveries lists the latest webhook audit rows of a store the user owns
func (s *StoreService) RecentDeliveries(ctx context.Context, userID, storeID uuid.UUID, limit int) ([]*tracking.WebhookEvent, error) {
	if _, err := s.Get(ctx, userID, storeID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultDeliveryLimit {
		limit = DefaultDeliveryLimit
	}
	return s.audit.FindByStore(ctx, storeID, limit)
}
