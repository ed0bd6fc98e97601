package notification

import (
	"context"

	"github.com/hospos/backend/internal/domain/banking"
	"go.uber.org/zap"
)

// LogSink delivers operator notifications to the structured log. It is the
// default sink for deployments without an external alerting channel.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send writes the notification as a warning log record
func (s *LogSink) Send(ctx context.Context, notification banking.Notification) error {
	fields := []zap.Field{
		zap.String("tenant_id", notification.TenantID.String()),
		zap.String("severity", notification.Severity),
		zap.String("title", notification.Title),
		zap.String("body", notification.Body),
	}
	for k, v := range notification.Metadata {
		fields = append(fields, zap.String(k, v))
	}
	s.logger.Warn("operator notification", fields...)
	return nil
}

var _ banking.NotificationSink = (*LogSink)(nil)
