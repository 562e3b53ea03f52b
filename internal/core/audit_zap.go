package core

import (
	"context"

	"go.uber.org/zap"
)

// ZapAuditRecorder writes audit entries to a zap logger. Failed calls are
// logged at warn level, misses and successes at info.
type ZapAuditRecorder struct {
	logger *zap.Logger
}

// NewZapAuditRecorder returns a recorder logging to logger, or to a no-op
// logger when nil.
func NewZapAuditRecorder(logger *zap.Logger) *ZapAuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAuditRecorder{logger: logger.Named("audit")}
}

// Record implements AuditRecorder.
func (r *ZapAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("entity", string(entry.Entity)),
		zap.String("status", string(entry.Status)),
		zap.Duration("duration", entry.Duration),
		zap.Time("occurred_at", entry.OccurredAt),
	}
	if entry.EntityID != 0 {
		fields = append(fields, zap.Int("entity_id", entry.EntityID))
	}
	switch entry.Status {
	case OutcomeError:
		fields = append(fields, zap.String("error", entry.Error))
		r.logger.Warn("farm operation failed", fields...)
	case OutcomeNotFound:
		r.logger.Info("farm record missing", fields...)
	default:
		r.logger.Info("farm operation", fields...)
	}
}
