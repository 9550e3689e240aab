package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/middleware"
)

// StoreManager is the store use-case surface
type StoreManager interface {
	Create(ctx context.Context, input apptracking.CreateStoreInput) (*tracking.Store, error)
	List(ctx context.Context, userID uuid.UUID) ([]*tracking.Store, error)
	Get(ctx context.Context, userID, storeID uuid.UUID) (*tracking.Store, error)
	UpdateStatus(ctx context.Context, userID, storeID uuid.UUID, status tracking.StoreStatus) (*tracking.Store, error)
	Delete(ctx context.Context, userID, storeID uuid.UUID) error
	RecentDeliveries(ctx context.Context, userID, storeID uuid.UUID, limit int) ([]*tracking.WebhookEvent, error)
}

// StoreHandler handles connected storefront HTTP requests
type StoreHandler struct {
	BaseHandler
	stores        StoreManager
	publicBaseURL string
}

// NewStoreHandler creates a new StoreHandler. publicBaseURL prefixes the
// webhook URLs handed to merchants.
func NewStoreHandler(stores StoreManager, publicBaseURL string) *StoreHandler {
	return &StoreHandler{stores: stores, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// CreateStoreRequest connects a storefront
//
//	@Description	Storefront to connect
type CreateStoreRequest struct {
	MarketplaceType string `json:"marketplaceType" binding:"required" example:"SHOPIFY"`
	StoreName       string `json:"storeName" binding:"required,max=100" example:"Acme Outfitters"`
	StoreURL        string `json:"storeUrl" binding:"required,url" example:"https://acme.myshopify.com"`
}

// UpdateStoreStatusRequest enables or disables a store
//
//	@Description	New store status
type UpdateStoreStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE DISABLED" example:"DISABLED"`
}

// StoreResponse is a connected storefront
//
//	@Description	Connected storefront. webhookSecret is only returned on creation.
type StoreResponse struct {
	ID              string    `json:"id" example:"5f0c8a4e-8b1f-4c39-9a5e-1d1c2f3e4a5b"`
	MarketplaceType string    `json:"marketplaceType" example:"SHOPIFY"`
	StoreName       string    `json:"storeName" example:"Acme Outfitters"`
	StoreURL        string    `json:"storeUrl" example:"https://acme.myshopify.com"`
	Status          string    `json:"status" example:"ACTIVE"`
	WebhookURL      string    `json:"webhookUrl" example:"https://api.example.com/webhooks/shopify/5f0c8a4e-8b1f-4c39-9a5e-1d1c2f3e4a5b"`
	WebhookSecret   string    `json:"webhookSecret,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// StoreEnvelope wraps a single store
type StoreEnvelope struct {
	Store StoreResponse `json:"store"`
}

// StoreListEnvelope wraps the user's stores
type StoreListEnvelope struct {
	Stores []StoreResponse `json:"stores"`
}

// DeliveryResponse is one webhook audit row, without the payload
//
//	@Description	Recorded webhook delivery
type DeliveryResponse struct {
	ID          string    `json:"id"`
	Marketplace string    `json:"marketplace" example:"SHOPIFY"`
	Verified    bool      `json:"verified"`
	Processed   bool      `json:"processed"`
	OrderID     *string   `json:"orderId,omitempty" example:"450789469"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeliveryListEnvelope wraps recent deliveries
type DeliveryListEnvelope struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

// Create godoc
//
//	@ID				createStore
//	@Summary		Connect a storefront
//	@Description	Creates a store with a freshly generated webhook secret. The secret is only returned here.
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateStoreRequest	true	"Store"
//	@Success		201		{object}	APIResponse[StoreEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	marketplace, ok := tracking.ParseMarketplace(req.MarketplaceType)
	if !ok {
		h.BadRequest(c, "Invalid marketplace type")
		return
	}

	store, err := h.stores.Create(c.Request.Context(), apptracking.CreateStoreInput{
		UserID:      userID,
		Marketplace: marketplace,
		Name:        req.StoreName,
		URL:         req.StoreURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := h.toStoreResponse(store)
	resp.WebhookSecret = store.WebhookSecret
	h.Created(c, StoreEnvelope{Store: resp})
}

// List godoc
//
//	@ID				listStores
//	@Summary		List connected storefronts
//	@Tags			stores
//	@Produce		json
//	@Success		200	{object}	APIResponse[StoreListEnvelope]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stores, err := h.stores.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]StoreResponse, 0, len(stores))
	for _, store := range stores {
		out = append(out, h.toStoreResponse(store))
	}
	h.Success(c, StoreListEnvelope{Stores: out})
}

// Get godoc
//
//	@ID				getStore
//	@Summary		Get a connected storefront
//	@Tags			stores
//	@Produce		json
//	@Param			id	path		string	true	"Store ID"	format(uuid)
//	@Success		200	{object}	APIResponse[StoreEnvelope]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/stores/{id} [get]
func (h *StoreHandler) Get(c *gin.Context) {
	userID, storeID, ok := h.storeRequest(c)
	if !ok {
		return
	}

	store, err := h.stores.Get(c.Request.Context(), userID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StoreEnvelope{Store: h.toStoreResponse(store)})
}

// UpdateStatus godoc
//
//	@ID				updateStoreStatus
//	@Summary		Enable or disable a storefront
//	@Description	Disabled stores still verify and audit webhooks but never track events.
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Store ID"	format(uuid)
//	@Param			request	body		UpdateStoreStatusRequest	true	"Status"
//	@Success		200		{object}	APIResponse[StoreEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/stores/{id}/status [patch]
func (h *StoreHandler) UpdateStatus(c *gin.Context) {
	userID, storeID, ok := h.storeRequest(c)
	if !ok {
		return
	}

	var req UpdateStoreStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store, err := h.stores.UpdateStatus(c.Request.Context(), userID, storeID, tracking.StoreStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StoreEnvelope{Store: h.toStoreResponse(store)})
}

// Delete godoc
//
//	@ID				deleteStore
//	@Summary		Disconnect a storefront
//	@Tags			stores
//	@Param			id	path	string	true	"Store ID"	format(uuid)
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/stores/{id} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	userID, storeID, ok := h.storeRequest(c)
	if !ok {
		return
	}

	if err := h.stores.Delete(c.Request.Context(), userID, storeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListDeliveries godoc
//
//	@ID				listStoreDeliveries
//	@Summary		List recent webhook deliveries
//	@Description	Returns the latest audit rows for a store, newest first. Raw payloads are not included.
//	@Tags			stores
//	@Produce		json
//	@Param			id		path		string	true	"Store ID"	format(uuid)
//	@Param			limit	query		int		false	"Maximum rows"	default(50)	maximum(50)
//	@Success		200		{object}	APIResponse[DeliveryListEnvelope]
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/stores/{id}/webhooks [get]
func (h *StoreHandler) ListDeliveries(c *gin.Context) {
	userID, storeID, ok := h.storeRequest(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	events, err := h.stores.RecentDeliveries(c.Request.Context(), userID, storeID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]DeliveryResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, DeliveryResponse{
			ID:          ev.ID.String(),
			Marketplace: ev.Marketplace.String(),
			Verified:    ev.Verified,
			Processed:   ev.Processed,
			OrderID:     ev.OrderID,
			CreatedAt:   ev.CreatedAt,
		})
	}
	h.Success(c, DeliveryListEnvelope{Deliveries: out})
}

// storeRequest resolves the caller and the :id path parameter. Malformed ids
// answer 404 so store existence is not probeable.
func (h *StoreHandler) storeRequest(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.NotFound(c, "Store not found")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, storeID, true
}

func (h *StoreHandler) toStoreResponse(store *tracking.Store) StoreResponse {
	return StoreResponse{
		ID:              store.ID.String(),
		MarketplaceType: store.Marketplace.String(),
		StoreName:       store.Name,
		StoreURL:        store.URL,
		Status:          string(store.Status),
		WebhookURL:      h.webhookURL(store),
		CreatedAt:       store.CreatedAt,
	}
}

func (h *StoreHandler) webhookURL(store *tracking.Store) string {
	return h.publicBaseURL + "/webhooks/" + store.Marketplace.PathSegment() + "/" + store.ID.String()
}
