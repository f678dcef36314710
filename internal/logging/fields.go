package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCommand names the CLI operation that produced the log line.
	FieldCommand = "command"
	// FieldRunID is the ledger identifier of the current batch run.
	FieldRunID = "run_id"
	// FieldSlice is the "k/n" slice the current process owns.
	FieldSlice = "slice"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)
