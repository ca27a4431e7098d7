package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSeriesKey is the standardized structured logging key for series identifiers.
	FieldSeriesKey = "series_key"
	// FieldQuery is the standardized structured logging key for search queries.
	FieldQuery = "query"
	// FieldRunID is the standardized structured logging key for per-run identifiers.
	FieldRunID = "run_id"
	// FieldOutcome is the standardized structured logging key for terminal resolution categories.
	FieldOutcome = "outcome"
	// FieldReason is the standardized structured logging key for outcome reason tags.
	FieldReason = "reason"
)
