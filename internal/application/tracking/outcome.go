package tracking

import (
	"net/http"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/google/uuid"
)

// OutcomeKind is the terminal state of one webhook delivery
type OutcomeKind string

const (
	// OutcomeRejected means the delivery could not be attributed or authenticated
	OutcomeRejected OutcomeKind = "REJECTED"
	// OutcomeIgnored means the delivery was authentic but not billable
	OutcomeIgnored OutcomeKind = "IGNORED"
	// OutcomeProcessed means an event was tracked and usage incremented
	OutcomeProcessed OutcomeKind = "PROCESSED"
)

// Reject reasons
const (
	ReasonStoreNotFound       = "store not found"
	ReasonMarketplaceMismatch = "invalid marketplace type"
	ReasonInvalidSignature    = "invalid webhook signature"
	ReasonInvalidSecret       = "invalid webhook secret"
)

// Ignore reasons
const (
	ReasonOrderNotPaid   = "order not paid"
	ReasonTestEvent      = "test event"
	ReasonStoreDisabled  = "store disabled"
	ReasonUserSuspended  = "user suspended"
	ReasonOwnerNotFound  = "owner not found"
	ReasonDuplicateOrder = "duplicate order"
)

// Outcome describes how a delivery was handled
type Outcome struct {
	Kind           OutcomeKind
	Reason         string
	HTTPStatus     int
	WebhookEventID *uuid.UUID
	TrackedEventID *uuid.UUID
	OrderID        string
	Usage          *billing.UsageCounter
}

// Message is the human-readable response text
func (o *Outcome) Message() string {
	switch o.Kind {
	case OutcomeProcessed:
		return "Webhook processed successfully"
	case OutcomeIgnored:
		return "Webhook received but not processed: " + o.Reason
	default:
		switch o.Reason {
		case ReasonStoreNotFound:
			return "Store not found"
		case ReasonMarketplaceMismatch:
			return "Invalid marketplace type"
		case ReasonInvalidSecret:
			return "Invalid webhook secret"
		default:
			return "Invalid webhook signature"
		}
	}
}

func rejected(reason string, status int) *Outcome {
	return &Outcome{Kind: OutcomeRejected, Reason: reason, HTTPStatus: status}
}

// Ignored deliveries answer 200 so marketplaces stop retrying.
func ignored(reason string, orderID string, auditID *uuid.UUID) *Outcome {
	return &Outcome{Kind: OutcomeIgnored, Reason: reason, HTTPStatus: http.StatusOK, OrderID: orderID, WebhookEventID: auditID}
}
