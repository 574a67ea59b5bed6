package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/despertar/internal/ports"
)

const (
	serviceName    = "despertar"
	serviceVersion = "1.0.0"
)

// Properties copied onto metric attributes. Everything else stays out to
// keep cardinality bounded.
var attributeKeys = []string{"variant", "step_name", "cta_name", "location", "source", "profile", "plan_volume", "intention", "time_available"}

// Exporter records analytics events as OTEL metrics.
type Exporter struct {
	provider     *sdkmetric.MeterProvider
	eventsTotal  metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewExporter creates an exporter pushing to an OTLP gRPC collector.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	return NewExporterWithReader(ctx, sdkmetric.NewPeriodicReader(exp))
}

// NewExporterWithReader builds the instruments on top of an arbitrary
// reader, such as a manual reader in tests.
func NewExporterWithReader(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	eventsTotal, err := meter.Int64Counter(
		"despertar_events_total",
		metric.WithDescription("Analytics events by name"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"despertar_event_duration_seconds",
		metric.WithDescription("Duration measured by timed events such as plan generation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Exporter{
		provider:     provider,
		eventsTotal:  eventsTotal,
		durationHist: durationHist,
	}, nil
}

// ExportEvent counts the event and records its duration when present.
func (e *Exporter) ExportEvent(ctx context.Context, ev *ports.Event) error {
	attrs := []attribute.KeyValue{attribute.String("event", ev.Name)}
	for _, k := range attributeKeys {
		if v, ok := ev.Properties[k]; ok {
			attrs = append(attrs, attribute.String(k, fmt.Sprint(v)))
		}
	}
	opt := metric.WithAttributes(attrs...)

	e.eventsTotal.Add(ctx, 1, opt)
	if ev.Duration > 0 {
		e.durationHist.Record(ctx, ev.Duration.Seconds(), opt)
	}
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
