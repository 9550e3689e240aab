// Package billing provides domain models for usage metering and quota admission.
//
// This package implements the usage metering bounded context, which is responsible for:
//   - Counting tracked events per user and calendar month (UsageCounter)
//   - Estimating cost from a fixed per-event rate
//   - Deciding whether a user may record further events (BillingAccount)
//
// Key Aggregates:
//   - BillingAccount: one per user, created lazily with a free quota
//   - UsageCounter: one per (user, year, month), created lazily, never deleted
//
// Value Objects:
//   - BillingPeriod: a (year, month) accounting window
//   - QuotaDecision: the outcome of an admission check
//
// Real invoicing and payment collection are handled elsewhere; this
// package only estimates cost and flags quota exhaustion.
package billing
