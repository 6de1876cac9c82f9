package logging

const (
	// FieldComponent names the subsystem emitting the line.
	FieldComponent = "component"
	// FieldCorrelationID ties log lines to one HTTP request.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies notable lines for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSocket is the mpv IPC socket path.
	FieldSocket = "socket"
	// FieldRequestID is the mpv request correlation id.
	FieldRequestID = "request_id"
	// FieldCommand is the mpv command name.
	FieldCommand = "command"
	// FieldMPVEvent is the name of an mpv event.
	FieldMPVEvent = "mpv_event"
)
