package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/middleware"
)

// EventTracker records manually reported events
type EventTracker interface {
	Track(ctx context.Context, input apptracking.TrackEventInput) (*apptracking.TrackEventResult, error)
}

// EventHandler handles manual event tracking
type EventHandler struct {
	BaseHandler
	tracker EventTracker
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(tracker EventTracker) *EventHandler {
	return &EventHandler{tracker: tracker}
}

// TrackEventRequest is a manually reported event
//
//	@Description	Event source and free-form type
type TrackEventRequest struct {
	Source    string `json:"source" binding:"required" example:"META_ADS"`
	EventType string `json:"eventType" binding:"required,max=100" example:"purchase"`
}

// TrackEventResponse identifies the recorded event
//
//	@Description	Recorded event and the usage after it
type TrackEventResponse struct {
	EventID string        `json:"eventId" example:"8d7e6f5a-4b3c-2d1e-0f9a-8b7c6d5e4f3a"`
	Usage   UsageSnapshot `json:"usage"`
}

// Track godoc
//
//	@ID				trackEvent
//	@Summary		Track an event
//	@Description	Records one billable event for the authenticated account. Sources are marketplaces,
//	@Description	CUSTOM_SITE_1, CUSTOM_SITE_2 or an ad platform such as META_ADS.
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TrackEventRequest	true	"Event"
//	@Success		201		{object}	APIResponse[TrackEventResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		402		{object}	ErrorResponse	"Free quota exhausted without an active subscription"
//	@Failure		403		{object}	ErrorResponse	"Account suspended"
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/events/track [post]
func (h *EventHandler) Track(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.tracker.Track(c.Request.Context(), apptracking.TrackEventInput{
		UserID:    userID,
		Source:    tracking.Source(strings.TrimSpace(req.Source)),
		EventType: req.EventType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, TrackEventResponse{
		EventID: result.Event.ID.String(),
		Usage:   toUsageSnapshot(result.Usage),
	})
}
