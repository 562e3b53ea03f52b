// Package core implements the farm entity stores, their service façades, and
// the farm-wide metrics aggregator.
package core

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"farmboard/pkg/domain"
)

// Service owns one store per entity for a session and exposes them through
// the Fields, Crops, and Activities façades. Every façade call waits the
// configured latency before touching a store.
type Service struct {
	fields     *Store[domain.Field]
	crops      *Store[domain.CropVariety]
	activities *Store[domain.Activity]
	figures    domain.FarmFigures

	latency Latency
	nowFn   func() time.Time
	logger  *zap.Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder

	fieldSvc    *FieldService
	cropSvc     *CropService
	activitySvc *ActivityService
}

// Option configures a Service.
type Option func(*Service)

// WithLatency sets the simulated delay applied to each call. Use the zero
// Latency in tests.
func WithLatency(l Latency) Option {
	return func(s *Service) { s.latency = l }
}

// WithClock overrides the time source used for creation dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the recorder observing every call.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the tracer wrapping every call.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithAuditRecorder sets the recorder receiving an entry per call.
func WithAuditRecorder(a AuditRecorder) Option {
	return func(s *Service) {
		if a != nil {
			s.audit = a
		}
	}
}

// NewService seeds a fresh session from dataset. The dataset is copied; later
// changes to it do not reach the stores.
func NewService(dataset domain.Dataset, opts ...Option) *Service {
	s := &Service{
		fields:     NewStore(domain.EntityField, dataset.Fields),
		crops:      NewStore(domain.EntityCrop, dataset.Crops),
		activities: NewStore(domain.EntityActivity, dataset.Activities),
		figures:    dataset.Figures,
		latency:    DefaultLatency,
		nowFn:      func() time.Time { return time.Now().UTC() },
		logger:     zap.NewNop(),
		metrics:    noopMetrics{},
		tracer:     noopTracer{},
		audit:      noopAudit{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fieldSvc = &FieldService{svc: s, store: s.fields}
	s.cropSvc = &CropService{svc: s, store: s.crops}
	s.activitySvc = &ActivityService{svc: s, store: s.activities}
	s.logger.Debug("session seeded",
		zap.Int("fields", s.fields.Len()),
		zap.Int("crops", s.crops.Len()),
		zap.Int("activities", s.activities.Len()),
	)
	return s
}

// Fields returns the field façade.
func (s *Service) Fields() *FieldService { return s.fieldSvc }

// Crops returns the crop variety façade.
func (s *Service) Crops() *CropService { return s.cropSvc }

// Activities returns the activity façade.
func (s *Service) Activities() *ActivityService { return s.activitySvc }

// Export returns a copy of the current session state as a dataset.
func (s *Service) Export() domain.Dataset {
	return domain.Dataset{
		Fields:     s.fields.List(),
		Crops:      s.crops.List(),
		Activities: s.activities.List(),
		Figures:    s.figures,
	}
}

func (s *Service) today() civil.Date {
	return civil.DateOf(s.nowFn())
}

// run waits the simulated latency, then executes fn inside a trace span and
// reports the outcome to metrics and audit. fn returns the id of the record it
// touched, or 0 for collection reads.
func (s *Service) run(ctx context.Context, op string, entity domain.EntityType, fn func() (int, error)) error {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, op)

	id := 0
	err := s.latency.Wait(ctx)
	if err == nil {
		id, err = fn()
	}

	elapsed := time.Since(started)
	outcome := OutcomeOf(err)
	span.End(err)
	s.metrics.Observe(ctx, Observation{Operation: op, Entity: entity, Outcome: outcome, Duration: elapsed})

	entry := AuditEntry{
		Operation:  op,
		Entity:     entity,
		EntityID:   id,
		Status:     outcome,
		Duration:   elapsed,
		OccurredAt: s.nowFn(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	var nf domain.ErrNotFound
	switch {
	case errors.As(err, &nf):
		entry.EntityID = nf.ID
		s.logger.Debug("record not found", zap.String("operation", op), zap.Int("id", nf.ID))
	case err != nil:
		s.logger.Warn("operation failed", zap.String("operation", op), zap.Error(err))
	}
	s.audit.Record(ctx, entry)
	return err
}

// Metrics aggregates the current field store with the static farm figures.
func (s *Service) Metrics(ctx context.Context) (domain.Metrics, error) {
	var out domain.Metrics
	err := s.run(ctx, "metrics.get", domain.EntityField, func() (int, error) {
		out = AggregateMetrics(s.fields.List(), s.figures)
		return 0, nil
	})
	return out, err
}

// AggregateMetrics sums acreage, counts planted fields, and counts distinct
// crop types; the remaining figures pass through unchanged.
func AggregateMetrics(fields []domain.Field, figures domain.FarmFigures) domain.Metrics {
	m := domain.Metrics{FarmFigures: figures}
	types := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		m.TotalAcres += f.Size
		if f.Status == domain.FieldStatusPlanted {
			m.ActiveFields++
		}
		types[f.CropType] = struct{}{}
	}
	m.CropTypes = len(types)
	return m
}
