package marketplace

import (
	"net/http"
	"net/url"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// HeaderBigCommerceSignature carries the hex HMAC-SHA256 of the body
const HeaderBigCommerceSignature = "X-BC-Webhook-Signature"

// BigCommerceAdapter handles BigCommerce order webhooks.
// Order fields are nested under "data".
type BigCommerceAdapter struct{}

// Marketplace returns BIGCOMMERCE
func (BigCommerceAdapter) Marketplace() tracking.Marketplace { return tracking.MarketplaceBigCommerce }

// SuppliedSignature reads the signature header
func (BigCommerceAdapter) SuppliedSignature(header http.Header, _ url.Values) string {
	return header.Get(HeaderBigCommerceSignature)
}

// VerifySignature checks the hex HMAC-SHA256 of the raw body
func (BigCommerceAdapter) VerifySignature(rawBody []byte, supplied, secret string) bool {
	return verifyHex(rawBody, supplied, secret)
}

// ExtractOrderID prefers data.id, then order_id
func (BigCommerceAdapter) ExtractOrderID(p tracking.OrderPayload) (string, bool) {
	return firstString(p, []string{"data", "id"}, []string{"order_id"})
}

// IsPaid is true for Completed or Shipped orders
func (BigCommerceAdapter) IsPaid(p tracking.OrderPayload) bool {
	return oneOf(stringField(p, "data", "status"), "Completed", "Shipped")
}

// IsTest looks for "test" in the customer message
func (BigCommerceAdapter) IsTest(p tracking.OrderPayload) bool {
	return containsTestFold(stringField(p, "data", "customer_message"))
}
