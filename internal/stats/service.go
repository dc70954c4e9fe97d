package stats

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// Scanner streams every stored complaint.
type Scanner interface {
	ScanComplaints(ctx context.Context, fn func(*domain.Complaint) error) error
}

// EntityCounter reports the entities currently taking complaints.
type EntityCounter interface {
	Active() []domain.Entity
}

// Service computes statistics over the whole complaint store. Each call is
// a full scan; it is meant for dashboards, not hot paths.
type Service struct {
	store     Scanner
	entities  EntityCounter
	log       logger.Logger
	telemetry *telemetry.Provider
	now       func() time.Time
}

// NewService wires a Service. entities may be nil, leaving TotalEntities
// at zero.
func NewService(store Scanner, entities EntityCounter, log logger.Logger, tp *telemetry.Provider) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{store: store, entities: entities, log: log, telemetry: tp, now: time.Now}
}

// Compute folds every complaint into a Snapshot without mutating any.
func (s *Service) Compute(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	ctx, span := s.telemetry.StartSpan(ctx, "stats.compute")
	defer span.End()

	agg := NewAggregator(s.now())
	if err := s.store.ScanComplaints(ctx, func(c *domain.Complaint) error {
		agg.Add(c)
		return nil
	}); err != nil {
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("scan complaints: %w", err)
	}

	snap := agg.Snapshot()
	if s.entities != nil {
		snap.TotalEntities = len(s.entities.Active())
	}
	span.SetAttributes(attribute.Int("stats.total", snap.Total))
	s.telemetry.RecordStats(time.Since(start), snap.Total)
	s.log.Debug("Statistics computed",
		logger.Int("total", snap.Total),
		logger.Duration("duration", time.Since(start)))
	return snap, nil
}
