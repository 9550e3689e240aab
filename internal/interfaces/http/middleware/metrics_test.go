package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.POST("/webhooks/:marketplace/:storeId", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, store := range []string{"a", "b", "c"} {
		serve(r, httptest.NewRequest(http.MethodPost, "/webhooks/shopify/"+store, strings.NewReader(`{"id":1}`)))
	}
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	var sawDuration, sawSize bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "http_server_request_total":
				sum := m.Data.(metricdata.Sum[int64])
				for _, dp := range sum.DataPoints {
					route, _ := dp.Attributes.Value("http.route")
					counts[route.AsString()] += dp.Value
				}
			case "http_server_request_duration_seconds":
				sawDuration = true
			case "http_server_request_size_bytes":
				sawSize = true
			}
		}
	}

	assert.Equal(t, map[string]int64{
		"/webhooks/:marketplace/:storeId": 3,
		"unmatched":                       1,
	}, counts)
	assert.True(t, sawDuration)
	assert.True(t, sawSize)
}
