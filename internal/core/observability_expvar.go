package core

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"farmboard/pkg/domain"
)

var opStatsSeq atomic.Uint64

// OpStats totals the calls of one operation.
type OpStats struct {
	Success  int64   `json:"success"`
	NotFound int64   `json:"not_found"`
	Error    int64   `json:"error"`
	TotalMS  float64 `json:"total_ms"`
	MaxMS    float64 `json:"max_ms"`
}

// Calls is the number of observed calls across all outcomes.
func (s OpStats) Calls() int64 { return s.Success + s.NotFound + s.Error }

func (s *OpStats) add(outcome Outcome, d time.Duration) {
	switch outcome {
	case OutcomeSuccess:
		s.Success++
	case OutcomeNotFound:
		s.NotFound++
	default:
		s.Error++
	}
	ms := float64(d) / float64(time.Millisecond)
	s.TotalMS += ms
	s.MaxMS = max(s.MaxMS, ms)
}

// OpStatsSnapshot groups OpStats by entity, then by operation.
type OpStatsSnapshot struct {
	Entities   map[domain.EntityType]map[string]OpStats `json:"entities"`
	RecordedAt time.Time                                `json:"recorded_at"`
}

// OpStatsRecorder is a MetricsRecorder that keeps per-entity operation totals
// and publishes them as an expvar.
type OpStatsRecorder struct {
	name string

	mu    sync.Mutex
	stats map[domain.EntityType]map[string]*OpStats
}

// NewOpStatsRecorder publishes a recorder under name. An empty name gets a
// generated one; expvar panics on a reused name.
func NewOpStatsRecorder(name string) *OpStatsRecorder {
	if name == "" {
		name = fmt.Sprintf("farmboard_op_stats_%d", opStatsSeq.Add(1))
	}
	r := &OpStatsRecorder{name: name, stats: make(map[domain.EntityType]map[string]*OpStats)}
	expvar.Publish(name, expvar.Func(func() any { return r.Snapshot() }))
	return r
}

// Name returns the expvar name.
func (r *OpStatsRecorder) Name() string { return r.name }

// Observe implements MetricsRecorder.
func (r *OpStatsRecorder) Observe(_ context.Context, obs Observation) {
	if obs.Operation == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ops, ok := r.stats[obs.Entity]
	if !ok {
		ops = make(map[string]*OpStats)
		r.stats[obs.Entity] = ops
	}
	st, ok := ops[obs.Operation]
	if !ok {
		st = &OpStats{}
		ops[obs.Operation] = st
	}
	st.add(obs.Outcome, obs.Duration)
}

// Stats returns the totals for one operation, zero when never observed.
func (r *OpStatsRecorder) Stats(entity domain.EntityType, operation string) OpStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st := r.stats[entity][operation]; st != nil {
		return *st
	}
	return OpStats{}
}

// Snapshot copies the current totals.
func (r *OpStatsRecorder) Snapshot() OpStatsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := OpStatsSnapshot{
		Entities:   make(map[domain.EntityType]map[string]OpStats, len(r.stats)),
		RecordedAt: time.Now().UTC(),
	}
	for entity, ops := range r.stats {
		cp := make(map[string]OpStats, len(ops))
		for op, st := range ops {
			cp[op] = *st
		}
		out.Entities[entity] = cp
	}
	return out
}
