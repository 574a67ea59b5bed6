package ports

import (
	"context"
	"time"
)

// EventExporter ships analytics events to an external observability system.
type EventExporter interface {
	// ExportEvent records a single analytics event.
	ExportEvent(ctx context.Context, e *Event) error
	// Close shuts down the exporter and flushes any pending events.
	Close(ctx context.Context) error
}

// Event is a named analytics event with flat properties.
type Event struct {
	Name       string
	UserID     string
	Properties map[string]any
	// Duration is set for events that measure an operation.
	Duration time.Duration
	At       time.Time
}
