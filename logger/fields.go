package logger

// Standard field names for consistent structured logging across changeset.
// Use these constants instead of raw strings so log queries stay stable.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldOperation = "operation"

	// Release domain
	FieldTicket  = "ticket"
	FieldTag     = "tag"
	FieldCommit  = "commit"
	FieldRemote  = "remote"
	FieldStatus  = "status"
	FieldLabel   = "label"
	FieldAction  = "action"
	FieldURL     = "url"
	FieldRange   = "range"
	FieldCommand = "command"

	// Errors
	FieldError = "error"
	FieldHint  = "hint"

	// Counts and timing
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldAttempt    = "attempt"
)
