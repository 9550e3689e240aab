package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.example.com/"

func storeRouter(userID uuid.UUID, stores StoreManager) *gin.Engine {
	h := NewStoreHandler(stores, testBaseURL)
	r := authenticatedRouter(userID)
	r.POST("/stores", h.Create)
	r.GET("/stores", h.List)
	r.GET("/stores/:id", h.Get)
	r.PATCH("/stores/:id/status", h.UpdateStatus)
	r.DELETE("/stores/:id", h.Delete)
	r.GET("/stores/:id/webhooks", h.ListDeliveries)
	return r
}

func newTestStore(t *testing.T, userID uuid.UUID) *tracking.Store {
	t.Helper()
	store, err := tracking.NewStore(userID, tracking.MarketplaceShopify, "Acme", "https://acme.myshopify.com")
	require.NoError(t, err)
	return store
}

func TestStoreHandler_Create(t *testing.T) {
	userID := uuid.New()
	store := newTestStore(t, userID)
	stores := new(MockStoreManager)
	stores.On("Create", mock.Anything, apptracking.CreateStoreInput{
		UserID:      userID,
		Marketplace: tracking.MarketplaceShopify,
		Name:        "Acme",
		URL:         "https://acme.myshopify.com",
	}).Return(store, nil)

	w := performJSON(t, storeRouter(userID, stores), http.MethodPost, "/stores", map[string]string{
		"marketplaceType": "shopify",
		"storeName":       "Acme",
		"storeUrl":        "https://acme.myshopify.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData[StoreEnvelope](t, decode(t, w))
	assert.Equal(t, store.ID.String(), data.Store.ID)
	assert.Equal(t, "SHOPIFY", data.Store.MarketplaceType)
	assert.Equal(t, "ACTIVE", data.Store.Status)
	assert.Equal(t, store.WebhookSecret, data.Store.WebhookSecret)
	assert.Equal(t, "https://api.example.com/webhooks/shopify/"+store.ID.String(), data.Store.WebhookURL)
}

func TestStoreHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]string
		expectedCode string
	}{
		{
			name:         "missing name",
			body:         map[string]string{"marketplaceType": "SHOPIFY", "storeUrl": "https://a.example"},
			expectedCode: "VALIDATION_ERROR",
		},
		{
			name:         "bad url",
			body:         map[string]string{"marketplaceType": "SHOPIFY", "storeName": "A", "storeUrl": "not a url"},
			expectedCode: "VALIDATION_ERROR",
		},
		{
			name:         "unknown marketplace",
			body:         map[string]string{"marketplaceType": "ETSY", "storeName": "A", "storeUrl": "https://a.example"},
			expectedCode: "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := new(MockStoreManager)
			w := performJSON(t, storeRouter(uuid.New(), stores), http.MethodPost, "/stores", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.expectedCode, decode(t, w).Error.Code)
			stores.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestStoreHandler_List_HidesSecrets(t *testing.T) {
	userID := uuid.New()
	stores := new(MockStoreManager)
	stores.On("List", mock.Anything, userID).Return([]*tracking.Store{newTestStore(t, userID), newTestStore(t, userID)}, nil)

	w := perform(storeRouter(userID, stores), http.MethodGet, "/stores", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "webhookSecret")
	data := decodeData[StoreListEnvelope](t, decode(t, w))
	assert.Len(t, data.Stores, 2)
}

func TestStoreHandler_Get(t *testing.T) {
	userID := uuid.New()
	store := newTestStore(t, userID)
	stores := new(MockStoreManager)
	stores.On("Get", mock.Anything, userID, store.ID).Return(store, nil)
	stores.On("Get", mock.Anything, userID, mock.Anything).Return(nil, apptracking.ErrStoreNotFound)
	r := storeRouter(userID, stores)

	t.Run("owned store", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/stores/"+store.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), store.WebhookSecret)
	})

	t.Run("unknown store", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/stores/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/stores/not-a-uuid", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Store not found", decode(t, w).Error.Message)
	})
}

func TestStoreHandler_UpdateStatus(t *testing.T) {
	userID := uuid.New()
	store := newTestStore(t, userID)
	disabled := *store
	disabled.Status = tracking.StoreStatusDisabled
	stores := new(MockStoreManager)
	stores.On("UpdateStatus", mock.Anything, userID, store.ID, tracking.StoreStatusDisabled).Return(&disabled, nil)
	r := storeRouter(userID, stores)

	w := performJSON(t, r, http.MethodPatch, "/stores/"+store.ID.String()+"/status", map[string]string{"status": "DISABLED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DISABLED", decodeData[StoreEnvelope](t, decode(t, w)).Store.Status)

	w = performJSON(t, r, http.MethodPatch, "/stores/"+store.ID.String()+"/status", map[string]string{"status": "PAUSED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	stores.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestStoreHandler_Delete(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	stores := new(MockStoreManager)
	stores.On("Delete", mock.Anything, userID, storeID).Return(nil)

	w := perform(storeRouter(userID, stores), http.MethodDelete, "/stores/"+storeID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	stores.AssertExpectations(t)
}

func TestStoreHandler_ListDeliveries(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	ev := tracking.NewWebhookEvent(storeID, tracking.MarketplaceShopify, []byte(`{"id":7,"email":"buyer@example.com"}`), true, true, "7")
	ev.CreatedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	stores := new(MockStoreManager)
	stores.On("RecentDeliveries", mock.Anything, userID, storeID, 10).Return([]*tracking.WebhookEvent{ev}, nil)

	w := perform(storeRouter(userID, stores), http.MethodGet, "/stores/"+storeID.String()+"/webhooks?limit=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "buyer@example.com")
	data := decodeData[DeliveryListEnvelope](t, decode(t, w))
	require.Len(t, data.Deliveries, 1)
	assert.Equal(t, ev.ID.String(), data.Deliveries[0].ID)
	assert.True(t, data.Deliveries[0].Verified)
	require.NotNil(t, data.Deliveries[0].OrderID)
	assert.Equal(t, "7", *data.Deliveries[0].OrderID)
}
