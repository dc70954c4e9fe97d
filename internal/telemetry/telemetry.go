// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for
// the complaint service. A nil *Provider is valid and records nothing.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "reportebuenaventura"
	namespace   = "complaints"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// Classification
	Classifications        *prometheus.CounterVec
	ClassificationDuration *prometheus.HistogramVec
	AICallDuration         *prometheus.HistogramVec
	KeywordMatchDuration   prometheus.Histogram
	AIBreakerState         prometheus.Gauge

	// Lifecycle
	ComplaintsCreated *prometheus.CounterVec
	StatusChanges     *prometheus.CounterVec
	RatingsSubmitted  prometheus.Counter
	CommentsAdded     prometheus.Counter
	ComplaintsDeleted prometheus.Counter

	// Events
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec

	// Aggregation
	StatsDuration prometheus.Histogram
	StatsScanned  prometheus.Histogram
}

// Provider wraps the tracer and metrics.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers metrics with the default Prometheus registry. It must
// be called once per process.
func NewProvider() *Provider {
	return newProvider(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewProviderWithRegistry registers metrics with reg. Tests use a fresh
// registry per provider.
func NewProviderWithRegistry(reg *prometheus.Registry) *Provider {
	return newProvider(reg, reg)
}

func newProvider(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		gatherer: gatherer,
	}
}

// Handler serves /metrics.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}
	initClassificationMetrics(f, m)
	initLifecycleMetrics(f, m)
	initEventMetrics(f, m)
	initStatsMetrics(f, m)
	return m
}

func initClassificationMetrics(f promauto.Factory, m *Metrics) {
	m.Classifications = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifications_total",
		Help:      "Classifications by decision path",
	}, []string{"method"})

	m.ClassificationDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classification_duration_seconds",
		Help:      "End-to-end classification time by decision path",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method"})

	m.AICallDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_call_duration_seconds",
		Help:      "External text-classification call latency",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider", "outcome"})

	m.KeywordMatchDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "keyword_match_duration_seconds",
		Help:      "Time spent in keyword matching (Aho-Corasick)",
		Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	m.AIBreakerState = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ai_breaker_state",
		Help:      "AI circuit breaker state (0 closed, 1 open, 2 half-open)",
	})
}

func initLifecycleMetrics(f promauto.Factory, m *Metrics) {
	m.ComplaintsCreated = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Complaints created by category",
	}, []string{"category"})

	m.StatusChanges = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Status updates by new status",
	}, []string{"status"})

	m.RatingsSubmitted = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Ratings submitted or overwritten",
	})

	m.CommentsAdded = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_added_total",
		Help:      "Comments added to complaint threads",
	})

	m.ComplaintsDeleted = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Complaints deleted with their comments",
	})
}

func initEventMetrics(f promauto.Factory, m *Metrics) {
	m.EventsPublished = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Lifecycle events written to the stream",
	}, []string{"event_type"})

	m.EventsFailed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_failed_total",
		Help:      "Lifecycle events that could not be published",
	}, []string{"event_type"})
}

func initStatsMetrics(f promauto.Factory, m *Metrics) {
	m.StatsDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_duration_seconds",
		Help:      "Time to compute the statistics snapshot",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})

	m.StatsScanned = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_scanned_complaints",
		Help:      "Complaints folded per statistics snapshot",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
}

// StartSpan starts a span. With a nil provider it returns the span already
// in ctx, which is a no-op span when there is none.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordClassification counts one classification decision.
func (p *Provider) RecordClassification(method string, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.Classifications.WithLabelValues(method).Inc()
	p.Metrics.ClassificationDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordAICall observes an external provider call.
func (p *Provider) RecordAICall(provider, outcome string, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.AICallDuration.WithLabelValues(provider, outcome).Observe(duration.Seconds())
}

// RecordKeywordMatch observes one keyword pass.
func (p *Provider) RecordKeywordMatch(duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.KeywordMatchDuration.Observe(duration.Seconds())
}

// SetBreakerState publishes the AI breaker state.
func (p *Provider) SetBreakerState(state int) {
	if p == nil {
		return
	}
	p.Metrics.AIBreakerState.Set(float64(state))
}

func (p *Provider) RecordComplaintCreated(category string) {
	if p == nil {
		return
	}
	p.Metrics.ComplaintsCreated.WithLabelValues(category).Inc()
}

func (p *Provider) RecordStatusChange(status string) {
	if p == nil {
		return
	}
	p.Metrics.StatusChanges.WithLabelValues(status).Inc()
}

func (p *Provider) RecordRating() {
	if p == nil {
		return
	}
	p.Metrics.RatingsSubmitted.Inc()
}

func (p *Provider) RecordComment() {
	if p == nil {
		return
	}
	p.Metrics.CommentsAdded.Inc()
}

func (p *Provider) RecordComplaintDeleted() {
	if p == nil {
		return
	}
	p.Metrics.ComplaintsDeleted.Inc()
}

// RecordEvent counts a publish attempt by outcome.
func (p *Provider) RecordEvent(eventType string, ok bool) {
	if p == nil {
		return
	}
	if ok {
		p.Metrics.EventsPublished.WithLabelValues(eventType).Inc()
		return
	}
	p.Metrics.EventsFailed.WithLabelValues(eventType).Inc()
}

// RecordStats observes one statistics computation.
func (p *Provider) RecordStats(duration time.Duration, scanned int) {
	if p == nil {
		return
	}
	p.Metrics.StatsDuration.Observe(duration.Seconds())
	p.Metrics.StatsScanned.Observe(float64(scanned))
}
