// Package marketplace implements webhook authentication and order field
// extraction for each supported storefront platform.
//
// Adapters are looked up through a Registry keyed by tracking.Marketplace.
// Adding a platform means adding one adapter and registering it; the
// webhook processor does not change.
package marketplace
