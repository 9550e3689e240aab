package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/marketplace"
)

// sampleOrder describes the order a simulated delivery reports.
type sampleOrder struct {
	ID     string
	Unpaid bool
	Test   bool
}

// buildPayload renders the order in the marketplace's own webhook shape.
func buildPayload(m tracking.Marketplace, o sampleOrder) ([]byte, error) {
	var body map[string]any
	switch m {
	case tracking.MarketplaceShopify:
		status := "paid"
		if o.Unpaid {
			status = "pending"
		}
		body = map[string]any{
			"id":               o.ID,
			"name":             "#" + o.ID,
			"financial_status": status,
			"test":             o.Test,
		}
	case tracking.MarketplaceWooCommerce:
		status := "completed"
		if o.Unpaid {
			status = "pending"
		}
		body = map[string]any{
			"id":            o.ID,
			"status":        status,
			"customer_note": note(o.Test),
		}
	case tracking.MarketplaceBigCommerce:
		status := "Completed"
		if o.Unpaid {
			status = "Pending"
		}
		body = map[string]any{
			"scope": "store/order/statusUpdated",
			"data": map[string]any{
				"id":               o.ID,
				"status":           status,
				"customer_message": note(o.Test),
			},
		}
	case tracking.MarketplaceMagento:
		state := "complete"
		if o.Unpaid {
			state = "pending_payment"
		}
		body = map[string]any{
			"entity_id":     o.ID,
			"state":         state,
			"customer_note": note(o.Test),
		}
	default:
		return nil, fmt.Errorf("unsupported marketplace %q", m)
	}
	return json.Marshal(body)
}

func note(test bool) string {
	if test {
		return "test order, please ignore"
	}
	return ""
}

// sign attaches the credential each marketplace uses to the outgoing request.
func sign(m tracking.Marketplace, body []byte, secret string, header http.Header, query url.Values) {
	switch m {
	case tracking.MarketplaceShopify:
		header.Set(marketplace.HeaderShopifyHmac, marketplace.SignBase64(body, secret))
	case tracking.MarketplaceWooCommerce:
		header.Set(marketplace.HeaderWooCommerceSignature, marketplace.SignBase64(body, secret))
	case tracking.MarketplaceBigCommerce:
		header.Set(marketplace.HeaderBigCommerceSignature, marketplace.SignHex(body, secret))
	case tracking.MarketplaceMagento:
		query.Set(marketplace.QueryMagentoSecret, secret)
	}
}
