package core

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelTracerName is the instrumentation scope of façade spans.
const OTelTracerName = "farmboard/internal/core"

// OTelTracer adapts an OpenTelemetry tracer provider to Tracer.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer returns a tracer backed by tp.
func NewOTelTracer(tp trace.TracerProvider) *OTelTracer {
	return &OTelTracer{tracer: tp.Tracer(OTelTracerName)}
}

// Start implements Tracer.
func (t *OTelTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	ctx, span := t.tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("farmboard.operation", operation)),
	)
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	outcome := OutcomeOf(err)
	s.span.SetAttributes(attribute.String("farmboard.outcome", string(outcome)))
	switch outcome {
	case OutcomeSuccess:
		s.span.SetStatus(codes.Ok, "")
	case OutcomeNotFound:
		// Misses leave the status unset.
		s.span.SetAttributes(attribute.Bool("farmboard.not_found", true))
	default:
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}
