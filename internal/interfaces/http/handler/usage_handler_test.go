package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func usageCounter(year, month int, count int64) *billing.UsageCounter {
	return &billing.UsageCounter{
		UserID:        uuid.New(),
		Period:        billing.BillingPeriod{Year: year, Month: month},
		EventCount:    count,
		EstimatedCost: billing.CostPerEvent.Mul(decimal.NewFromInt(count)),
	}
}

func TestUsageHandler_GetCurrent(t *testing.T) {
	userID := uuid.New()
	usage := new(MockUsageReader)
	usage.On("Current", mock.Anything, userID).Return(&appbilling.CurrentUsageSummary{
		Counter: usageCounter(2026, 10, 42),
		Billing: &appbilling.BillingStatus{
			Status:    billing.AccountStatusActive,
			FreeQuota: 1000,
			IsActive:  true,
		},
		RemainingQuota: 958,
	}, nil)

	r := authenticatedRouter(userID)
	r.GET("/usage/current", NewUsageHandler(usage).GetCurrent)
	w := perform(r, http.MethodGet, "/usage/current", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData[CurrentUsageResponse](t, decode(t, w))
	assert.Equal(t, UsagePeriodResponse{Year: 2026, Month: 10, EventCount: 42, EstimatedCost: 0.21}, data.CurrentMonth)
	assert.Equal(t, BillingStatusResponse{
		Status:         string(billing.AccountStatusActive),
		FreeQuota:      1000,
		RemainingQuota: 958,
		IsActive:       true,
	}, data.Billing)
}

func TestUsageHandler_GetCurrent_Error(t *testing.T) {
	userID := uuid.New()
	usage := new(MockUsageReader)
	usage.On("Current", mock.Anything, userID).Return(nil, errors.New("boom"))

	r := authenticatedRouter(userID)
	r.GET("/usage/current", NewUsageHandler(usage).GetCurrent)

	assert.Equal(t, http.StatusInternalServerError, perform(r, http.MethodGet, "/usage/current", nil).Code)
}

func TestUsageHandler_GetHistory(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectedLimit int
	}{
		{"no limit", "", 0},
		{"explicit limit", "?limit=3", 3},
		{"garbage limit", "?limit=abc", 0},
		{"negative limit", "?limit=-5", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			usage := new(MockUsageReader)
			usage.On("History", mock.Anything, userID, tt.expectedLimit).Return([]*billing.UsageCounter{
				usageCounter(2026, 10, 5),
				usageCounter(2026, 9, 2),
			}, nil)

			r := authenticatedRouter(userID)
			r.GET("/usage/history", NewUsageHandler(usage).GetHistory)
			w := perform(r, http.MethodGet, "/usage/history"+tt.query, nil)

			require.Equal(t, http.StatusOK, w.Code)
			data := decodeData[UsageHistoryResponse](t, decode(t, w))
			require.Len(t, data.History, 2)
			assert.Equal(t, 10, data.History[0].Month)
			assert.Equal(t, 9, data.History[1].Month)
			usage.AssertExpectations(t)
		})
	}
}

func TestUsageHandler_GetHistory_Empty(t *testing.T) {
	userID := uuid.New()
	usage := new(MockUsageReader)
	usage.On("History", mock.Anything, userID, 0).Return([]*billing.UsageCounter{}, nil)

	r := authenticatedRouter(userID)
	r.GET("/usage/history", NewUsageHandler(usage).GetHistory)
	w := perform(r, http.MethodGet, "/usage/history", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"history":[]}}`, w.Body.String())
}
