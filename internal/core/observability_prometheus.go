package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"farmboard/pkg/domain"
)

// PrometheusMetricsRecorder exports call counts and latency histograms.
type PrometheusMetricsRecorder struct {
	calls     *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the farmboard operation collectors on reg.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	r := &PrometheusMetricsRecorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmboard",
			Name:      "operations_total",
			Help:      "Façade calls by operation and outcome (success, not_found, error).",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "farmboard",
			Name:      "operation_duration_seconds",
			Help:      "Façade call latency including simulated delay.",
			Buckets:   []float64{.001, .01, .05, .1, .2, .3, .4, .5, .75, 1},
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{r.calls, r.durations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register operation collector: %w", err)
		}
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, obs Observation) {
	r.calls.WithLabelValues(obs.Operation, string(obs.Outcome)).Inc()
	r.durations.WithLabelValues(obs.Operation).Observe(obs.Duration.Seconds())
}

// RegisterRecordGauges exposes the current record count of each store as
// farmboard_records{entity=...}.
func (s *Service) RegisterRecordGauges(reg prometheus.Registerer) error {
	counts := map[domain.EntityType]func() int{
		domain.EntityField:    s.fields.Len,
		domain.EntityCrop:     s.crops.Len,
		domain.EntityActivity: s.activities.Len,
	}
	var errs []error
	for entity, count := range counts {
		count := count
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "farmboard",
			Name:        "records",
			Help:        "Records currently held by each entity store.",
			ConstLabels: prometheus.Labels{"entity": string(entity)},
		}, func() float64 { return float64(count()) })
		if err := reg.Register(gauge); err != nil {
			errs = append(errs, fmt.Errorf("register %s gauge: %w", entity, err))
		}
	}
	return errors.Join(errs...)
}
