// Package telemetry sets up the OpenTelemetry tracer provider behind the
// façade spans.
package telemetry

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config controls tracer provider initialization.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Writer receives spans as JSON. Nil keeps spans in process only.
	Writer io.Writer
	Pretty bool
}

// Init returns a tracer provider for cfg and its shutdown func, which flushes
// pending spans.
func Init(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "farmboard"
	}
	res, err := sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.Writer != nil {
		expOpts := []stdouttrace.Option{stdouttrace.WithWriter(cfg.Writer)}
		if cfg.Pretty {
			expOpts = append(expOpts, stdouttrace.WithPrettyPrint())
		}
		exp, err := stdouttrace.New(expOpts...)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp,
			sdktrace.WithMaxExportBatchSize(512),
			sdktrace.WithBatchTimeout(200*time.Millisecond),
		))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	return tp, tp.Shutdown, nil
}
