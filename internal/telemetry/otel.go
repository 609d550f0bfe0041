package telemetry

import (
	"context"
	"errors"
	"log"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// OtelConfig is read from the standard OTEL_* variables. An empty endpoint disables export.
type OtelConfig struct {
	Endpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName    string `env:"OTEL_SERVICE_NAME,default=nutriplan-api"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION,default=0.1.0"`
	DeployEnv      string `env:"OTEL_DEPLOY_ENV,default=development"`
}

// Shutdown flushes and stops the tracer provider.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// LoadOtelConfig decodes OtelConfig from the environment.
func LoadOtelConfig() (OtelConfig, error) {
	var cfg OtelConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, err
	}
	return cfg, nil
}

// InitOtel registers a global tracer provider that batches spans to the OTLP gRPC
// endpoint. Without an endpoint the global no-op provider stays in place.
func InitOtel(ctx context.Context, cfg OtelConfig) (*sdktrace.TracerProvider, Shutdown, error) {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	if cfg.Endpoint == "" {
		log.Printf("[Telemetry] OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return nil, noopShutdown, nil
	}

	traceExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient())
	if err != nil {
		return nil, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(Resource(cfg)),
	)
	otel.SetTracerProvider(tracerProvider)
	log.Printf("[Telemetry] Exporting traces to %s as %s", cfg.Endpoint, cfg.ServiceName)

	shutdown := func(ctx context.Context) error {
		err := tracerProvider.Shutdown(ctx)
		if err != nil && err.Error() == "gRPC exporter is shutdown" {
			return nil
		}
		return err
	}
	return tracerProvider, shutdown, nil
}

// Resource describes this service to the collector.
func Resource(cfg OtelConfig) *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.DeployEnv),
	)
}
