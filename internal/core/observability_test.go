package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"farmboard/pkg/domain"
)

func TestOpStatsRecorderGroupsByEntity(t *testing.T) {
	rec := NewOpStatsRecorder("")
	if !strings.HasPrefix(rec.Name(), "farmboard_op_stats_") {
		t.Fatalf("unexpected generated name %q", rec.Name())
	}
	svc := newTestService(t, WithMetricsRecorder(rec))
	ctx := context.Background()

	_, _ = svc.Fields().GetByID(ctx, 1)
	_, _ = svc.Fields().GetByID(ctx, 99)
	_, _ = svc.Crops().GetByID(ctx, 99)
	_, _ = svc.Metrics(ctx)
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _ = svc.Fields().GetByID(cancelled, 1)
	rec.Observe(ctx, Observation{Entity: domain.EntityField, Outcome: OutcomeSuccess})

	got := rec.Stats(domain.EntityField, "fields.get")
	if got.Success != 1 || got.NotFound != 1 || got.Error != 1 || got.Calls() != 3 {
		t.Fatalf("unexpected field stats %+v", got)
	}
	if got.MaxMS > got.TotalMS {
		t.Fatalf("max %v exceeds total %v", got.MaxMS, got.TotalMS)
	}
	if crop := rec.Stats(domain.EntityCrop, "crops.get"); crop.NotFound != 1 || crop.Calls() != 1 {
		t.Fatalf("unexpected crop stats %+v", crop)
	}
	if rec.Stats(domain.EntityCrop, "fields.get").Calls() != 0 {
		t.Fatalf("operations must not leak across entities")
	}

	snap := rec.Snapshot()
	if len(snap.Entities) != 2 || len(snap.Entities[domain.EntityField]) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap.Entities)
	}
	snap.Entities[domain.EntityField]["fields.get"] = OpStats{Success: 100}
	if rec.Stats(domain.EntityField, "fields.get").Success != 1 {
		t.Fatalf("snapshot aliased recorder state")
	}

	published := expvar.Get(rec.Name())
	if published == nil || !strings.Contains(published.String(), `"not_found":1`) {
		t.Fatalf("expvar export missing outcome totals: %v", published)
	}
}

func TestJSONTracerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "crops.delete")
	span.End(errors.New("boom"))
	_, span = tracer.Start(context.Background(), "crops.get")
	span.End(domain.ErrNotFound{Entity: domain.EntityCrop, ID: 9})
	_, span = tracer.Start(context.Background(), "crops.get_all")
	span.End(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	var first TraceRecord
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Seq != 1 || first.Operation != "crops.delete" || first.Outcome != OutcomeError || first.Error != "boom" {
		t.Fatalf("unexpected record %+v", first)
	}
	records := tracer.Records()
	if len(records) != 3 || records[1].Outcome != OutcomeNotFound || records[2].Outcome != OutcomeSuccess {
		t.Fatalf("unexpected retained records %+v", records)
	}
	if tracer.Err() != nil {
		t.Fatalf("unexpected write error %v", tracer.Err())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJSONTracerKeepsFirstWriteError(t *testing.T) {
	tracer := NewJSONTracer(failingWriter{})
	for range 2 {
		_, span := tracer.Start(context.Background(), "fields.get_all")
		span.End(nil)
	}
	if tracer.Err() == nil || tracer.Err().Error() != "disk full" {
		t.Fatalf("expected write error, got %v", tracer.Err())
	}
	if len(tracer.Records()) != 2 {
		t.Fatalf("records should survive write failures")
	}
}

func TestOutcomeOf(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", domain.ErrNotFound{Entity: domain.EntityField, ID: 3})
	cases := map[Outcome]error{
		OutcomeSuccess:  nil,
		OutcomeNotFound: wrapped,
		OutcomeError:    context.Canceled,
	}
	for want, err := range cases {
		if got := OutcomeOf(err); got != want {
			t.Fatalf("OutcomeOf(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	svc := newTestService(t, WithMetricsRecorder(rec))
	ctx := context.Background()
	_, _ = svc.Fields().GetAll(ctx)
	_, _ = svc.Fields().GetAll(ctx)
	_, _ = svc.Fields().GetByID(ctx, 500)

	if got := testutil.ToFloat64(rec.calls.WithLabelValues("fields.get_all", "success")); got != 2 {
		t.Fatalf("expected 2 successful get_all, got %v", got)
	}
	if got := testutil.ToFloat64(rec.calls.WithLabelValues("fields.get", "not_found")); got != 1 {
		t.Fatalf("expected 1 missed get, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.durations); n != 2 {
		t.Fatalf("expected 2 histogram series, got %d", n)
	}

	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRecordGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newTestService(t)
	if err := svc.RegisterRecordGauges(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Activities().Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expected := `
# HELP farmboard_records Records currently held by each entity store.
# TYPE farmboard_records gauge
farmboard_records{entity="activity"} 5
farmboard_records{entity="crop"} 3
farmboard_records{entity="field"} 4
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "farmboard_records"); err != nil {
		t.Fatalf("gauges: %v", err)
	}
}

func TestZapAuditRecorderLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := newTestService(t, WithAuditRecorder(NewZapAuditRecorder(zap.New(core))))
	ctx := context.Background()

	if _, err := svc.Crops().Create(ctx, domain.CropInput{VarietyName: "Oat 1", CropType: "Oats", CycleDuration: "90"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = svc.Crops().Delete(ctx, 404)
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _ = svc.Crops().GetAll(cancelled)

	entries := logs.FilterLoggerName("audit").AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit logs, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["entity_id"] != int64(4) {
		t.Fatalf("unexpected success log %+v", entries[0].ContextMap())
	}
	miss := entries[1].ContextMap()
	if entries[1].Level != zapcore.InfoLevel || miss["status"] != "not_found" || miss["entity_id"] != int64(404) {
		t.Fatalf("unexpected miss log %+v", miss)
	}
	if entries[2].Level != zapcore.WarnLevel || entries[2].ContextMap()["error"] != context.Canceled.Error() {
		t.Fatalf("unexpected failure log %+v", entries[2].ContextMap())
	}
}

func TestServiceLogsUnexpectedFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := newTestService(t, WithLogger(zap.New(core)), WithLatency(FixedLatency(time.Hour)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _ = svc.Fields().GetAll(ctx)
	if logs.FilterMessage("operation failed").Len() != 1 {
		t.Fatalf("expected warn log for cancelled call, got %v", logs.AllUntimed())
	}
}

func TestMultiMetricsRecorderFansOut(t *testing.T) {
	a, b := &metricsCapture{}, &metricsCapture{}
	multi := MultiMetricsRecorder{a, nil, b}
	multi.Observe(context.Background(), Observation{Operation: "op", Outcome: OutcomeSuccess, Duration: time.Millisecond})
	if len(a.all()) != 1 || len(b.all()) != 1 {
		t.Fatalf("expected both recorders to observe")
	}
}
