// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by mutable rows
//   - identity.go: accounts (owned by the identity provider)
//   - billing.go: billing accounts and usage counters
//   - tracking.go: stores, tracked events and webhook audit rows
//
// The SQL migrations under migrations/ are the source of truth for the
// schema; AllModels exists so tests can AutoMigrate an equivalent schema.
package models

// AllModels returns every model in dependency order
func AllModels() []any {
	return []any{
		&AccountModel{},
		&BillingAccountModel{},
		&UsageCounterModel{},
		&StoreModel{},
		&TrackedEventModel{},
		&WebhookEventModel{},
	}
}
