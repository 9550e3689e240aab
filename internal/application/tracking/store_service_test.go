package tracking_test

import (
	"context"
	"testing"

	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func (f *fixture) storeService() *apptracking.StoreService {
	return apptracking.NewStoreService(f.stores, f.audit, zaptest.NewLogger(f.t))
}

func TestStoreService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	svc := f.storeService()
	ctx := context.Background()
	userID := uuid.New()

	store, err := svc.Create(ctx, apptracking.CreateStoreInput{
		UserID:      userID,
		Marketplace: tracking.MarketplaceBigCommerce,
		Name:        "  Widgets  ",
		URL:         "https://widgets.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Widgets", store.Name)
	assert.Equal(t, tracking.StoreStatusActive, store.Status)
	assert.Len(t, store.WebhookSecret, 64)

	_, err = svc.Create(ctx, apptracking.CreateStoreInput{
		UserID:      userID,
		Marketplace: tracking.MarketplaceShopify,
		Name:        "Second",
		URL:         "https://second.example.com",
	})
	require.NoError(t, err)

	stores, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	others, err := svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestStoreService_CreateValidation(t *testing.T) {
	svc := newFixture(t).storeService()
	userID := uuid.New()

	tests := []struct {
		name  string
		input apptracking.CreateStoreInput
	}{
		{"unknown marketplace", apptracking.CreateStoreInput{UserID: userID, Marketplace: "ETSY", Name: "x", URL: "https://x.example.com"}},
		{"blank name", apptracking.CreateStoreInput{UserID: userID, Marketplace: tracking.MarketplaceShopify, Name: "  ", URL: "https://x.example.com"}},
		{"ftp url", apptracking.CreateStoreInput{UserID: userID, Marketplace: tracking.MarketplaceShopify, Name: "x", URL: "ftp://x.example.com"}},
		{"nil user", apptracking.CreateStoreInput{Marketplace: tracking.MarketplaceShopify, Name: "x", URL: "https://x.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			require.Error(t, err)
		})
	}
}

func TestStoreService_OwnershipIsEnforced(t *testing.T) {
	f := newFixture(t)
	svc := f.storeService()
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	store := f.newStore(owner, tracking.MarketplaceShopify)

	_, err := svc.Get(ctx, intruder, store.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, intruder, store.ID, tracking.StoreStatusDisabled)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.Delete(ctx, intruder, store.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.RecentDeliveries(ctx, intruder, store.ID, 10)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := svc.Get(ctx, owner, store.ID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StoreStatusActive, got.Status)
}

func TestStoreService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.storeService()
	ctx := context.Background()
	owner := uuid.New()
	store := f.newStore(owner, tracking.MarketplaceWooCommerce)

	updated, err := svc.UpdateStatus(ctx, owner, store.ID, tracking.StoreStatusDisabled)
	require.NoError(t, err)
	assert.True(t, updated.IsDisabled())

	reloaded, err := svc.Get(ctx, owner, store.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDisabled())

	_, err = svc.UpdateStatus(ctx, owner, store.ID, tracking.StoreStatus("PAUSED"))
	assert.Error(t, err)
}

func TestStoreService_DeleteKeepsDeliveries(t *testing.T) {
	f := newFixture(t)
	svc := f.storeService()
	ctx := context.Background()
	owner := f.newOwner(false)
	store := f.newStore(owner.ID, tracking.MarketplaceShopify)

	_, err := f.processor().Process(ctx, signedRequest(store, paidShopifyOrder))
	require.NoError(t, err)

	deliveries, err := svc.RecentDeliveries(ctx, owner.ID, store.ID, 0)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	require.NoError(t, svc.Delete(ctx, owner.ID, store.ID))
	_, err = svc.Get(ctx, owner.ID, store.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.Len(t, f.deliveries(store.ID), 1)
	assert.Equal(t, int64(1), f.usage(owner.ID))
}
