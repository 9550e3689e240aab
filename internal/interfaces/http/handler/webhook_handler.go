package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/logger"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/dto"
)

// WebhookProcessor handles one inbound delivery
type WebhookProcessor interface {
	Process(ctx context.Context, req apptracking.WebhookRequest) (*apptracking.Outcome, error)
}

// WebhookHandler receives marketplace order webhooks
type WebhookHandler struct {
	BaseHandler
	processor       WebhookProcessor
	maxPayloadBytes int64
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(processor WebhookProcessor, maxPayloadBytes int64) *WebhookHandler {
	return &WebhookHandler{processor: processor, maxPayloadBytes: maxPayloadBytes}
}

// WebhookProcessedData is returned when a delivery was tracked
//
//	@Description	Identifiers and usage after a tracked delivery
type WebhookProcessedData struct {
	WebhookEventID string        `json:"webhookEventId" example:"5f0c8a4e-8b1f-4c39-9a5e-1d1c2f3e4a5b"`
	TrackedEventID string        `json:"trackedEventId" example:"8d7e6f5a-4b3c-2d1e-0f9a-8b7c6d5e4f3a"`
	Usage          UsageSnapshot `json:"usage"`
}

// Receive godoc
//
//	@ID				receiveWebhook
//	@Summary		Receive a marketplace webhook
//	@Description	Verifies the delivery against the store's webhook secret and tracks paid orders once.
//	@Description	Shopify and WooCommerce sign with base64 HMAC-SHA256, BigCommerce with hex HMAC-SHA256.
//	@Description	Magento passes the secret as the secret query parameter.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			marketplace	path		string	true	"Marketplace"	Enums(shopify, woocommerce, bigcommerce, magento)
//	@Param			storeId		path		string	true	"Store ID"		format(uuid)
//	@Param			secret		query		string	false	"Magento shared secret"
//	@Success		200			{object}	APIResponse[WebhookProcessedData]	"Processed, or received but not processed"
//	@Failure		400			{object}	ErrorResponse						"Invalid marketplace type"
//	@Failure		401			{object}	ErrorResponse						"Invalid webhook signature"
//	@Failure		404			{object}	ErrorResponse						"Store not found"
//	@Failure		413			{object}	ErrorResponse						"Payload too large"
//	@Failure		500			{object}	ErrorResponse
//	@Router			/webhooks/{marketplace}/{storeId} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if c.Request.ContentLength > h.maxPayloadBytes {
		h.payloadTooLarge(c)
		return
	}
	// Read one byte past the limit to tell "exactly at" from "over"
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxPayloadBytes+1))
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}
	if int64(len(raw)) > h.maxPayloadBytes {
		h.payloadTooLarge(c)
		return
	}

	storeID := c.Param("storeId")
	ctx, _ := logger.WithStoreID(c.Request.Context(), logger.FromContext(c.Request.Context()), storeID)
	c.Request = c.Request.WithContext(ctx)

	outcome, err := h.processor.Process(ctx, apptracking.WebhookRequest{
		Marketplace: c.Param("marketplace"),
		StoreID:     storeID,
		RawBody:     raw,
		Header:      c.Request.Header,
		Query:       c.Request.URL.Query(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch outcome.Kind {
	case apptracking.OutcomeProcessed:
		c.JSON(http.StatusOK, dto.NewMessageResponse(outcome.Message(), WebhookProcessedData{
			WebhookEventID: outcome.WebhookEventID.String(),
			TrackedEventID: outcome.TrackedEventID.String(),
			Usage:          toUsageSnapshot(outcome.Usage),
		}))
	case apptracking.OutcomeIgnored:
		c.JSON(http.StatusOK, dto.NewMessageResponse(outcome.Message(), nil))
	default:
		h.Error(c, outcome.HTTPStatus, rejectionCode(outcome.HTTPStatus), outcome.Message())
	}
}

func (h *WebhookHandler) payloadTooLarge(c *gin.Context) {
	h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Webhook payload exceeds maximum allowed size")
}

func rejectionCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return dto.ErrCodeNotFound
	case http.StatusUnauthorized:
		return dto.ErrCodeUnauthorized
	default:
		return dto.ErrCodeBadRequest
	}
}
