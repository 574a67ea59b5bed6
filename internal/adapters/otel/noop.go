package otel

import (
	"context"

	"github.com/emiliopalmerini/despertar/internal/ports"
)

// NoOpExporter is an event exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportEvent(ctx context.Context, ev *ports.Event) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
