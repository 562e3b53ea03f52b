package core

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"sync"
	"time"
)

// TraceRecord is one façade call as written by JSONTracer.
type TraceRecord struct {
	Seq        uint64    `json:"seq"`
	Operation  string    `json:"operation"`
	Outcome    Outcome   `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	Start      time.Time `json:"start"`
	DurationMS float64   `json:"duration_ms"`
}

// JSONTracer appends one JSON line per façade call and keeps the records in
// memory.
type JSONTracer struct {
	mu      sync.Mutex
	enc     *json.Encoder
	seq     uint64
	records []TraceRecord
	err     error
}

// NewJSONTracer writes to w. With a nil writer records are only retained.
func NewJSONTracer(w io.Writer) *JSONTracer {
	t := &JSONTracer{}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Start implements Tracer.
func (t *JSONTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	started := time.Now().UTC()
	return ctx, spanFunc(func(err error) { t.finish(operation, started, err) })
}

func (t *JSONTracer) finish(operation string, started time.Time, callErr error) {
	rec := TraceRecord{
		Operation:  operation,
		Outcome:    OutcomeOf(callErr),
		Start:      started,
		DurationMS: float64(time.Since(started)) / float64(time.Millisecond),
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	rec.Seq = t.seq
	t.records = append(t.records, rec)
	if t.enc != nil && t.err == nil {
		t.err = t.enc.Encode(rec)
	}
}

// Records returns the calls traced so far, oldest first.
func (t *JSONTracer) Records() []TraceRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.records)
}

// Err reports the first write failure. Later records are kept in memory only.
func (t *JSONTracer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

type spanFunc func(error)

func (f spanFunc) End(err error) { f(err) }
