package ports_test

import (
	"testing"

	"github.com/emiliopalmerini/despertar/internal/adapters/memory"
	"github.com/emiliopalmerini/despertar/internal/adapters/otel"
	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/analytics"
	"github.com/emiliopalmerini/despertar/internal/apiclient"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestKeyValueStoreConformance(t *testing.T) {
	var _ ports.KeyValueStore = (*turso.KeyValueStore)(nil)
	var _ ports.KeyValueStore = (*memory.KeyValueStore)(nil)
}

func TestPlanGeneratorConformance(t *testing.T) {
	var _ ports.PlanGenerator = (*apiclient.Client)(nil)
}

func TestEventExporterConformance(t *testing.T) {
	var _ ports.EventExporter = (*otel.Exporter)(nil)
	var _ ports.EventExporter = (*otel.NoOpExporter)(nil)
	var _ ports.EventExporter = (*analytics.LogExporter)(nil)
}
