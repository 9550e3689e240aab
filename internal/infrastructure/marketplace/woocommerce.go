package marketplace

import (
	"net/http"
	"net/url"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// HeaderWooCommerceSignature carries the base64 HMAC-SHA256 of the body
const HeaderWooCommerceSignature = "X-WC-Webhook-Signature"

// WooCommerceAdapter handles WooCommerce order webhooks
type WooCommerceAdapter struct{}

// Marketplace returns WOOCOMMERCE
func (WooCommerceAdapter) Marketplace() tracking.Marketplace { return tracking.MarketplaceWooCommerce }

// SuppliedSignature reads the signature header
func (WooCommerceAdapter) SuppliedSignature(header http.Header, _ url.Values) string {
	return header.Get(HeaderWooCommerceSignature)
}

// VerifySignature checks the base64 HMAC-SHA256 of the raw body
func (WooCommerceAdapter) VerifySignature(rawBody []byte, supplied, secret string) bool {
	return verifyBase64(rawBody, supplied, secret)
}

// ExtractOrderID prefers id, then order_key
func (WooCommerceAdapter) ExtractOrderID(p tracking.OrderPayload) (string, bool) {
	return firstString(p, []string{"id"}, []string{"order_key"})
}

// IsPaid is true for completed or processing orders
func (WooCommerceAdapter) IsPaid(p tracking.OrderPayload) bool {
	return oneOf(stringField(p, "status"), "completed", "processing")
}

// IsTest looks for "test" in the customer note
func (WooCommerceAdapter) IsTest(p tracking.OrderPayload) bool {
	return containsTestFold(stringField(p, "customer_note"))
}
