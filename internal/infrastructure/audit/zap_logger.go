package audit

import (
	"github.com/you/guardianauth/domain"
	"go.uber.org/zap"
)

// ZapAuditLogger implements domain.AuditLogger on a structured zap logger.
type ZapAuditLogger struct {
	logger *zap.Logger
}

// NewZapAuditLogger creates a new audit logger
func NewZapAuditLogger(logger *zap.Logger) domain.AuditLogger {
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (l *ZapAuditLogger) LogEvent(event *domain.AuditEvent) {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Bool("success", event.Success),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if event.Success {
		l.logger.Info(string(event.EventType), fields...)
	} else {
		l.logger.Warn(string(event.EventType), fields...)
	}
}
