package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// OrderPayload is a decoded marketplace webhook body
type OrderPayload map[string]any

// DecodeOrderPayload parses a webhook body. Numbers stay json.Number so
// large order ids keep every digit.
func DecodeOrderPayload(raw []byte) (OrderPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload OrderPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode order payload: %w", err)
	}
	return payload, nil
}

// OrderFacts is what the processor needs to know about an order payload
type OrderFacts struct {
	OrderID string
	HasID   bool
	Paid    bool
	Test    bool
}

// MarketplaceAdapter encapsulates one marketplace's signing scheme and payload shape.
// Implementations never panic or return errors; anything unreadable is "absent" or false.
type MarketplaceAdapter interface {
	Marketplace() Marketplace

	// SuppliedSignature picks the signature (or shared secret) out of the request
	SuppliedSignature(header http.Header, query url.Values) string

	// VerifySignature checks supplied against the raw, unparsed body and the store secret
	VerifySignature(rawBody []byte, supplied, secret string) bool

	ExtractOrderID(payload OrderPayload) (string, bool)
	IsPaid(payload OrderPayload) bool
	IsTest(payload OrderPayload) bool
}

// MarketplaceRegistry resolves adapters by marketplace
type MarketplaceRegistry interface {
	Adapter(m Marketplace) (MarketplaceAdapter, bool)
	Extract(m Marketplace, payload OrderPayload) OrderFacts
}
