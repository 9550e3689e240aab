package marketplace

import (
	"net/http"
	"net/url"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// QueryMagentoSecret is the query parameter holding the shared store secret
const QueryMagentoSecret = "secret"

// MagentoAdapter handles Magento order webhooks.
// Magento does not sign bodies; the store secret travels as a query parameter.
type MagentoAdapter struct{}

// Marketplace returns MAGENTO
func (MagentoAdapter) Marketplace() tracking.Marketplace { return tracking.MarketplaceMagento }

// SuppliedSignature reads the secret query parameter
func (MagentoAdapter) SuppliedSignature(_ http.Header, query url.Values) string {
	return query.Get(QueryMagentoSecret)
}

// VerifySignature compares the supplied secret with the store secret
func (MagentoAdapter) VerifySignature(_ []byte, supplied, secret string) bool {
	return equalConstantTime(secret, supplied)
}

// ExtractOrderID prefers entity_id, then increment_id
func (MagentoAdapter) ExtractOrderID(p tracking.OrderPayload) (string, bool) {
	return firstString(p, []string{"entity_id"}, []string{"increment_id"})
}

// IsPaid is true for complete or processing orders
func (MagentoAdapter) IsPaid(p tracking.OrderPayload) bool {
	return oneOf(stringField(p, "state"), "complete", "processing")
}

// IsTest looks for "test" in the customer note
func (MagentoAdapter) IsTest(p tracking.OrderPayload) bool {
	return containsTestFold(stringField(p, "customer_note"))
}
