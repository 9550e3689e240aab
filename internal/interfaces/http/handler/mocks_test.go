package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockWebhookProcessor implements WebhookProcessor for testing
type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) Process(ctx context.Context, req apptracking.WebhookRequest) (*apptracking.Outcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apptracking.Outcome), args.Error(1)
}

// MockEventTracker implements EventTracker for testing
type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Track(ctx context.Context, input apptracking.TrackEventInput) (*apptracking.TrackEventResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apptracking.TrackEventResult), args.Error(1)
}

// MockUsageReader implements UsageReader for testing
type MockUsageReader struct {
	mock.Mock
}

func (m *MockUsageReader) Current(ctx context.Context, userID uuid.UUID) (*appbilling.CurrentUsageSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.CurrentUsageSummary), args.Error(1)
}

func (m *MockUsageReader) History(ctx context.Context, userID uuid.UUID, limit int) ([]*billing.UsageCounter, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.UsageCounter), args.Error(1)
}

// MockStoreManager implements StoreManager for testing
type MockStoreManager struct {
	mock.Mock
}

func (m *MockStoreManager) Create(ctx context.Context, input apptracking.CreateStoreInput) (*tracking.Store, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Store), args.Error(1)
}

func (m *MockStoreManager) List(ctx context.Context, userID uuid.UUID) ([]*tracking.Store, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracking.Store), args.Error(1)
}

func (m *MockStoreManager) Get(ctx context.Context, userID, storeID uuid.UUID) (*tracking.Store, error) {
	args := m.Called(ctx, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Store), args.Error(1)
}

func (m *MockStoreManager) UpdateStatus(ctx context.Context, userID, storeID uuid.UUID, status tracking.StoreStatus) (*tracking.Store, error) {
	args := m.Called(ctx, userID, storeID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Store), args.Error(1)
}

func (m *MockStoreManager) Delete(ctx context.Context, userID, storeID uuid.UUID) error {
	args := m.Called(ctx, userID, storeID)
	return args.Error(0)
}

func (m *MockStoreManager) RecentDeliveries(ctx context.Context, userID, storeID uuid.UUID, limit int) ([]*tracking.WebhookEvent, error) {
	args := m.Called(ctx, userID, storeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracking.WebhookEvent), args.Error(1)
}

// MockPinger implements Pinger for testing
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// authenticatedRouter returns an engine that authenticates every request as
// userID, mirroring what the JWT middleware leaves in the context
func authenticatedRouter(userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, "test-request-id")
		if userID != uuid.Nil {
			c.Set(middleware.JWTUserIDKey, userID.String())
		}
		c.Next()
	})
	return r
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func perform(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return perform(r, method, path, bytes.NewReader(raw))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}
