package observability

// Metric name prefixes
const (
	MetricPrefix = "botoclock"
)

// Metric names
const (
	// Discord metrics
	CommandsTotal = MetricPrefix + ".commands.total"

	// Registry metrics
	ClocksCreatedTotal = MetricPrefix + ".clocks.created_total"
	ClocksRemovedTotal = MetricPrefix + ".clocks.removed_total"
	StoreErrorsTotal   = MetricPrefix + ".store.errors_total"

	// Reconciliation metrics
	ReconciliationDeletionsTotal = MetricPrefix + ".reconciliation.deletions_total"

	// Refresh worker metrics
	RefreshEditsTotal = MetricPrefix + ".refresh.edits_total"
	RefreshDuration   = MetricPrefix + ".refresh.duration"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelCommand   = "command"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
	LabelOperation = "operation"
)

// Command outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeUserError   = "user_error"
	OutcomeSystemError = "system_error"
)

// Refresh edit outcomes
const (
	RefreshEdited  = "edited"
	RefreshSkipped = "skipped"
	RefreshFailed  = "failed"
)
