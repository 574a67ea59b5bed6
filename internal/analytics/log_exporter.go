package analytics

import (
	"context"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/ports"
)

// LogExporter writes every event as a structured log line.
type LogExporter struct {
	logger *zap.Logger
}

func NewLogExporter(logger *zap.Logger) *LogExporter {
	return &LogExporter{logger: logger.Named("analytics")}
}

func (e *LogExporter) ExportEvent(ctx context.Context, ev *ports.Event) error {
	fields := make([]zap.Field, 0, len(ev.Properties)+2)
	fields = append(fields, zap.String("event", ev.Name), zap.Time("at", ev.At))
	for k, v := range ev.Properties {
		fields = append(fields, zap.Any(k, v))
	}
	e.logger.Info("event", fields...)
	return nil
}

// Close flushes buffered entries. Sync errors on console outputs are ignored.
func (e *LogExporter) Close(ctx context.Context) error {
	_ = e.logger.Sync()
	return nil
}
