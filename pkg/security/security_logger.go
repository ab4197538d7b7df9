package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventRateLimitStoreDown EventType = "rate_limit_store_unavailable"
	EventValidationFailed   EventType = "validation_failed"
	EventMailSendFailed     EventType = "mail_send_failed"
	EventMailSent           EventType = "mail_sent"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Severity     Severity               `json:"severity"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger builds a production zap logger writing JSON to stdout
func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Containers collect stdout
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		// Fallback to a basic logger if config fails
		logger, _ = zap.NewProduction()
	}

	return NewWithZap(logger, serviceName, environment)
}

// NewWithZap wraps an existing zap logger
func NewWithZap(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Nop discards every event
func Nop() *SecurityLogger {
	return NewWithZap(zap.NewNop(), "", "")
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	event.Severity = GetSeverity(event.Event)
	level := zapcore.WarnLevel
	switch {
	case IsHighOrAbove(event.Event):
		level = zapcore.ErrorLevel
	case event.Severity == SeverityINFO:
		level = zapcore.InfoLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string, count int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint, "count": count},
	})
}

// LogRateLimitStoreDown logs a failing shared limiter store
func (sl *SecurityLogger) LogRateLimitStoreDown(ctx context.Context, err error) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventRateLimitStoreDown,
		SubjectType: "system",
		Details:     map[string]interface{}{"error": err.Error()},
	})
}

// LogValidationFailed logs a rejected submission
func (sl *SecurityLogger) LogValidationFailed(ctx context.Context, email, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventValidationFailed,
		SubjectType:  "email",
		SubjectValue: maskValue("email", email),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

// LogMailSendFailed records the transport cause that the client never sees
func (sl *SecurityLogger) LogMailSendFailed(ctx context.Context, replyTo, ip, requestID string, cause error) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventMailSendFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(replyTo),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"error": cause.Error()},
	})
}

// LogMailSent records an accepted submission
func (sl *SecurityLogger) LogMailSent(ctx context.Context, replyTo, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventMailSent,
		SubjectType:  "email",
		SubjectValue: MaskEmail(replyTo),
		IP:           ip,
		RequestID:    requestID,
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}

// maskValue masks a value based on its type. Values that are not
// well-formed emails are hashed since they may hold anything.
func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		if strings.Count(value, "@") == 1 {
			return MaskEmail(value)
		}
		return HashValue(value)
	case "ip":
		return value // IPs are not PII in security context
	default:
		return HashValue(value)
	}
}
