package main

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_ExtractsAsSent(t *testing.T) {
	registry := marketplace.NewDefaultRegistry()

	tests := []struct {
		name   string
		order  sampleOrder
		isPaid bool
		isTest bool
	}{
		{name: "paid", order: sampleOrder{ID: "1001"}, isPaid: true},
		{name: "unpaid", order: sampleOrder{ID: "1002", Unpaid: true}},
		{name: "test order", order: sampleOrder{ID: "1003", Test: true}, isPaid: true, isTest: true},
	}

	for _, m := range tracking.AllMarketplaces() {
		for _, tt := range tests {
			t.Run(m.String()+"/"+tt.name, func(t *testing.T) {
				body, err := buildPayload(m, tt.order)
				require.NoError(t, err)

				payload, err := tracking.DecodeOrderPayload(body)
				require.NoError(t, err)

				facts := registry.Extract(m, payload)
				assert.Equal(t, tt.order.ID, facts.OrderID)
				assert.Equal(t, tt.isPaid, facts.Paid)
				assert.Equal(t, tt.isTest, facts.Test)
			})
		}
	}
}

func TestSign_VerifiesWithStoreSecret(t *testing.T) {
	registry := marketplace.NewDefaultRegistry()
	const secret = "whsec_sim"

	for _, m := range tracking.AllMarketplaces() {
		t.Run(m.String(), func(t *testing.T) {
			body, err := buildPayload(m, sampleOrder{ID: "42"})
			require.NoError(t, err)

			header, query := http.Header{}, url.Values{}
			sign(m, body, secret, header, query)

			adapter, ok := registry.Adapter(m)
			require.True(t, ok)
			supplied := adapter.SuppliedSignature(header, query)
			assert.True(t, registry.Verify(m, body, supplied, secret))
			assert.False(t, registry.Verify(m, body, supplied, "other-secret"))
		})
	}
}

func TestBuildPayload_UnknownMarketplace(t *testing.T) {
	_, err := buildPayload(tracking.Marketplace("ETSY"), sampleOrder{ID: "1"})
	assert.Error(t, err)
}
