package security

// Severity represents the severity level of a security event
// This is derived from EventType, NOT user-provided
type Severity string

const (
	SeverityINFO Severity = "INFO"
	SeverityWARN Severity = "WARN"
	SeverityHIGH Severity = "HIGH"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventMailSent: SeverityINFO,

	EventValidationFailed:   SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,

	// Visitors' messages are being lost or the shared quota is gone
	EventMailSendFailed:     SeverityHIGH,
	EventRateLimitStoreDown: SeverityHIGH,
}

// GetSeverity returns the severity for an event type
// If the event type is not mapped, defaults to WARN
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityWARN
}

// IsHighOrAbove returns true if the event needs an operator
func IsHighOrAbove(eventType EventType) bool {
	return GetSeverity(eventType) == SeverityHIGH
}
