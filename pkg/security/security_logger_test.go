package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewWithZap(zap.New(core), "contact-relay", "test"), logs
}

func TestLogRateLimitTriggered(t *testing.T) {
	sl, logs := observed()
	sl.LogRateLimitTriggered(context.Background(), "1.2.3.4", "curl/8", "req-1", "/api/contact", 6)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "rate_limit_triggered", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "contact-relay", fields["service"])
	assert.Equal(t, "1.2.3.4", fields["ip"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Contains(t, fields["details"], `"endpoint":"/api/contact"`)
}

func TestLogMailSendFailedMasksSubmitter(t *testing.T) {
	sl, logs := observed()
	sl.LogMailSendFailed(context.Background(), "jane@example.com", "1.2.3.4", "req-2", errors.New("535 auth failed"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "j***@example.com", fields["subject_value"])
	assert.Equal(t, "HIGH", fields["severity"])
	assert.Contains(t, fields["details"], "535 auth failed")
}

func TestGetSeverity(t *testing.T) {
	assert.Equal(t, SeverityINFO, GetSeverity(EventMailSent))
	assert.Equal(t, SeverityWARN, GetSeverity(EventRateLimitTriggered))
	assert.Equal(t, SeverityWARN, GetSeverity(EventType("unmapped")))
	assert.True(t, IsHighOrAbove(EventRateLimitStoreDown))
	assert.False(t, IsHighOrAbove(EventValidationFailed))
}

func TestLogValidationFailedHashesGarbage(t *testing.T) {
	sl, logs := observed()
	sl.LogValidationFailed(context.Background(), "not an email", "1.2.3.4", "", "invalid_email")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, HashValue("not an email"), fields["subject_value"])
	_, hasRequestID := fields["request_id"]
	assert.False(t, hasRequestID)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@x.io", MaskEmail("a@x.io"))
}

func TestNopDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().LogMailSent(context.Background(), "a@b.com", "", "")
	})
}
