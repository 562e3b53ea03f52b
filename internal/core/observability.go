package core

import (
	"context"
	"errors"
	"time"

	"farmboard/pkg/domain"
)

// Outcome classifies how a façade call ended.
type Outcome string

// Call outcomes. A lookup of a missing record is not_found, not error.
const (
	OutcomeSuccess  Outcome = "success"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// OutcomeOf maps a façade error to its Outcome.
func OutcomeOf(err error) Outcome {
	var nf domain.ErrNotFound
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &nf):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// Observation is what a MetricsRecorder learns about one façade call.
type Observation struct {
	Operation string
	Entity    domain.EntityType
	Outcome   Outcome
	Duration  time.Duration
}

// MetricsRecorder receives one observation per façade call.
type MetricsRecorder interface {
	Observe(ctx context.Context, obs Observation)
}

// Tracer opens a span around each façade call.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the call's outcome.
type TraceSpan interface {
	End(err error)
}

// AuditEntry describes one completed façade call.
type AuditEntry struct {
	Operation  string            `json:"operation"`
	Entity     domain.EntityType `json:"entity"`
	EntityID   int               `json:"entity_id,omitempty"`
	Status     Outcome           `json:"status"`
	Error      string            `json:"error,omitempty"`
	Duration   time.Duration     `json:"duration"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// AuditRecorder receives an AuditEntry per façade call.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, Observation) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

// MultiMetricsRecorder fans an observation out to several recorders.
type MultiMetricsRecorder []MetricsRecorder

// Observe forwards to every non-nil recorder.
func (m MultiMetricsRecorder) Observe(ctx context.Context, obs Observation) {
	for _, r := range m {
		if r != nil {
			r.Observe(ctx, obs)
		}
	}
}

// MultiTracer opens a span on every tracer and ends them together.
type MultiTracer []Tracer

// Start implements Tracer. Each tracer sees the context returned by the one
// before it.
func (m MultiTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	spans := make(multiSpan, 0, len(m))
	for _, t := range m {
		if t == nil {
			continue
		}
		var span TraceSpan
		ctx, span = t.Start(ctx, operation)
		spans = append(spans, span)
	}
	return ctx, spans
}

type multiSpan []TraceSpan

func (m multiSpan) End(err error) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].End(err)
	}
}
