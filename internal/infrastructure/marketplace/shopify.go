package marketplace

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// HeaderShopifyHmac carries the base64 HMAC-SHA256 of the body
const HeaderShopifyHmac = "X-Shopify-Hmac-Sha256"

// ShopifyAdapter handles Shopify order webhooks
type ShopifyAdapter struct{}

// Marketplace returns SHOPIFY
func (ShopifyAdapter) Marketplace() tracking.Marketplace { return tracking.MarketplaceShopify }

// SuppliedSignature reads the HMAC header
func (ShopifyAdapter) SuppliedSignature(header http.Header, _ url.Values) string {
	return header.Get(HeaderShopifyHmac)
}

// VerifySignature checks the base64 HMAC-SHA256 of the raw body
func (ShopifyAdapter) VerifySignature(rawBody []byte, supplied, secret string) bool {
	return verifyBase64(rawBody, supplied, secret)
}

// ExtractOrderID prefers id, then order_number
func (ShopifyAdapter) ExtractOrderID(p tracking.OrderPayload) (string, bool) {
	return firstString(p, []string{"id"}, []string{"order_number"})
}

// IsPaid is true for paid or authorized financial status
func (ShopifyAdapter) IsPaid(p tracking.OrderPayload) bool {
	return oneOf(stringField(p, "financial_status"), "paid", "authorized")
}

// IsTest is true for test orders or orders whose name mentions test
func (ShopifyAdapter) IsTest(p tracking.OrderPayload) bool {
	if t, ok := field(p, "test").(bool); ok && t {
		return true
	}
	return strings.Contains(stringField(p, "name"), "test")
}
