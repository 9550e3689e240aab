package marketplace

import (
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// Registry maps marketplaces to their adapters
type Registry struct {
	adapters map[tracking.Marketplace]tracking.MarketplaceAdapter
}

// NewRegistry creates a registry holding the given adapters
func NewRegistry(adapters ...tracking.MarketplaceAdapter) *Registry {
	r := &Registry{adapters: make(map[tracking.Marketplace]tracking.MarketplaceAdapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// NewDefaultRegistry registers all built-in marketplaces
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		ShopifyAdapter{},
		WooCommerceAdapter{},
		BigCommerceAdapter{},
		MagentoAdapter{},
	)
}

// Register adds or replaces the adapter for its marketplace
func (r *Registry) Register(a tracking.MarketplaceAdapter) {
	r.adapters[a.Marketplace()] = a
}

// Adapter returns the adapter for m
func (r *Registry) Adapter(m tracking.Marketplace) (tracking.MarketplaceAdapter, bool) {
	a, ok := r.adapters[m]
	return a, ok
}

// Verify checks a delivery for m. Unknown marketplaces never verify.
func (r *Registry) Verify(m tracking.Marketplace, rawBody []byte, supplied, secret string) bool {
	a, ok := r.Adapter(m)
	if !ok {
		return false
	}
	return a.VerifySignature(rawBody, supplied, secret)
}

// Extract classifies a payload for m. Unknown marketplaces yield zero facts.
func (r *Registry) Extract(m tracking.Marketplace, payload tracking.OrderPayload) tracking.OrderFacts {
	a, ok := r.Adapter(m)
	if !ok || payload == nil {
		return tracking.OrderFacts{}
	}
	id, hasID := a.ExtractOrderID(payload)
	return tracking.OrderFacts{
		OrderID: id,
		HasID:   hasID,
		Paid:    a.IsPaid(payload),
		Test:    a.IsTest(payload),
	}
}

var defaultRegistry = NewDefaultRegistry()

// Verify checks a delivery against the built-in adapters
func Verify(m tracking.Marketplace, rawBody []byte, supplied, secret string) bool {
	return defaultRegistry.Verify(m, rawBody, supplied, secret)
}

// Extract classifies a payload with the built-in adapters
func Extract(m tracking.Marketplace, payload tracking.OrderPayload) tracking.OrderFacts {
	return defaultRegistry.Extract(m, payload)
}

var _ tracking.MarketplaceRegistry = (*Registry)(nil)
