package dashboardapi

import (
	"context"

	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"go.uber.org/zap"
)

// ZapOperationLogger forwards dashboard operation logs to zap.
type ZapOperationLogger struct {
	logger *zap.Logger
}

// NewZapOperationLogger wraps logger. A nil logger discards entries.
func NewZapOperationLogger(logger *zap.Logger) *ZapOperationLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapOperationLogger{logger: logger}
}

// LogOperation implements dashboard.OperationLogger.
func (operationLogger *ZapOperationLogger) LogOperation(_ context.Context, entry dashboard.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.Int("accounts", entry.Accounts),
		zap.Int("filtered", entry.Filtered),
		zap.Duration("duration", entry.Duration),
	}
	if !entry.SnapshotTaken.IsZero() {
		fields = append(fields, zap.Time("snapshot_taken", entry.SnapshotTaken))
	}
	if entry.Criteria.BranchID != nil {
		fields = append(fields, zap.Int("branch_id", *entry.Criteria.BranchID))
	}
	if entry.Criteria.SearchTerm != "" {
		fields = append(fields, zap.String("search", entry.Criteria.SearchTerm))
	}
	if entry.Error != nil {
		operationLogger.logger.Warn("dashboard operation failed", append(fields, zap.Error(entry.Error))...)
		return
	}
	operationLogger.logger.Debug("dashboard operation", fields...)
}
