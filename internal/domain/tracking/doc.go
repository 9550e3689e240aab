// Package tracking models connected storefronts and the events recorded for them.
//
// A Store links a user to one marketplace and carries the secret used to
// authenticate that marketplace's webhooks. Every inbound webhook leaves a
// WebhookEvent audit row; billable actions become TrackedEvents, which are
// unique per (user, source, orderId) when an order id is known.
package tracking
