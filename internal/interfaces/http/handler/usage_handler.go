package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
)

// UsageReader answers the usage read endpoints
type UsageReader interface {
	Current(ctx context.Context, userID uuid.UUID) (*appbilling.CurrentUsageSummary, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*billing.UsageCounter, error)
}

// UsageHandler handles usage and billing status HTTP requests
type UsageHandler struct {
	BaseHandler
	usage UsageReader
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage UsageReader) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// UsageSnapshot is the counter returned after an event is tracked
//
//	@Description	Event count and estimated cost for the current period
type UsageSnapshot struct {
	EventCount    int64   `json:"eventCount" example:"42"`
	EstimatedCost float64 `json:"estimatedCost" example:"0.21"`
}

// UsagePeriodResponse is one billing period
//
//	@Description	Usage for one calendar month
type UsagePeriodResponse struct {
	Year          int     `json:"year" example:"2026"`
	Month         int     `json:"month" example:"10"`
	EventCount    int64   `json:"eventCount" example:"42"`
	EstimatedCost float64 `json:"estimatedCost" example:"0.21"`
}

// BillingStatusResponse describes the account's standing
//
//	@Description	Billing account status and quota
type BillingStatusResponse struct {
	Status         string `json:"status" example:"ACTIVE"`
	FreeQuota      int64  `json:"freeQuota" example:"1000"`
	RemainingQuota int64  `json:"remainingQuota" example:"958"`
	IsActive       bool   `json:"isActive" example:"true"`
}

// CurrentUsageResponse is the current period plus billing state
//
//	@Description	Current month usage and billing status
type CurrentUsageResponse struct {
	CurrentMonth UsagePeriodResponse   `json:"currentMonth"`
	Billing      BillingStatusResponse `json:"billing"`
}

// UsageHistoryResponse lists past periods, newest first
//
//	@Description	Monthly usage history
type UsageHistoryResponse struct {
	History []UsagePeriodResponse `json:"history"`
}

// GetCurrent godoc
//
//	@ID				getCurrentUsage
//	@Summary		Get current month usage
//	@Description	Returns this month's event count and estimated cost together with the billing status and remaining free quota
//	@Tags			usage
//	@Produce		json
//	@Success		200	{object}	APIResponse[CurrentUsageResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/usage/current [get]
func (h *UsageHandler) GetCurrent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.usage.Current(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CurrentUsageResponse{
		CurrentMonth: toUsagePeriod(summary.Counter),
		Billing: BillingStatusResponse{
			Status:         string(summary.Billing.Status),
			FreeQuota:      summary.Billing.FreeQuota,
			RemainingQuota: summary.RemainingQuota,
			IsActive:       summary.Billing.IsActive,
		},
	})
}

// GetHistory godoc
//
//	@ID				getUsageHistory
//	@Summary		Get monthly usage history
//	@Description	Returns up to limit billing periods, newest first. Missing or non-positive limits use 12; the maximum is 120.
//	@Tags			usage
//	@Produce		json
//	@Param			limit	query		int	false	"Number of periods"	default(12)	maximum(120)
//	@Success		200		{object}	APIResponse[UsageHistoryResponse]
//	@Failure		401		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/usage/history [get]
func (h *UsageHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	// Unparseable limits fall back to the default like missing ones
	limit, _ := strconv.Atoi(c.Query("limit"))

	counters, err := h.usage.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	history := make([]UsagePeriodResponse, 0, len(counters))
	for _, counter := range counters {
		history = append(history, toUsagePeriod(counter))
	}
	h.Success(c, UsageHistoryResponse{History: history})
}

func toUsagePeriod(counter *billing.UsageCounter) UsagePeriodResponse {
	return UsagePeriodResponse{
		Year:          counter.Period.Year,
		Month:         counter.Period.Month,
		EventCount:    counter.EventCount,
		EstimatedCost: counter.EstimatedCost.InexactFloat64(),
	}
}

func toUsageSnapshot(counter *billing.UsageCounter) UsageSnapshot {
	if counter == nil {
		return UsageSnapshot{}
	}
	return UsageSnapshot{
		EventCount:    counter.EventCount,
		EstimatedCost: counter.EstimatedCost.InexactFloat64(),
	}
}
