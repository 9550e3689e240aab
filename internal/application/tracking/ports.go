package tracking

import "context"

// PayloadArchive keeps a copy of verified webhook bodies outside the database
type PayloadArchive interface {
	Archive(ctx context.Context, key string, body []byte) error
}

// OutcomeRecorder observes webhook outcomes, typically for metrics
type OutcomeRecorder interface {
	RecordWebhookOutcome(ctx context.Context, marketplace string, kind OutcomeKind, reason string)
	RecordTrackedEvent(ctx context.Context, source string)
}
