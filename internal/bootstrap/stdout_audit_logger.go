package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries to the process log. Deployments
// that need a durable trail swap in an implementation backed by storage.
type StdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{logger: zap.L().Named("audit")}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	l.logger.Info(entry.Message,
		zap.String("action", entry.Action),
		zap.Any("meta", entry.Meta),
	)
}
