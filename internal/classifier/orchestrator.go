package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/circuitbreaker"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// DefaultAITimeout bounds a single AI attempt.
const DefaultAITimeout = 30 * time.Second

// OrchestratorConfig tunes the guards around the AI tier.
type OrchestratorConfig struct {
	Timeout time.Duration
	// RatePerSecond limits AI calls; zero disables the limiter.
	RatePerSecond float64
	Burst         int
	// Breaker opens after this many consecutive AI failures; zero disables it.
	BreakerFailureThreshold int
	BreakerOpenTimeout      time.Duration
}

// Orchestrator is the single classification entry point. The keyword
// classifier is the backstop for every AI failure, so Classify always
// returns a category and an entity.
type Orchestrator struct {
	keyword   *KeywordClassifier
	ai        *AIClassifier
	limiter   *rate.Limiter
	breaker   *circuitbreaker.Breaker
	timeout   time.Duration
	log       logger.Logger
	telemetry *telemetry.Provider
}

// NewOrchestrator wires the chain. A nil ai means the AI tier is not
// configured and every call goes straight to keywords.
func NewOrchestrator(
	keyword *KeywordClassifier,
	ai *AIClassifier,
	cfg OrchestratorConfig,
	log logger.Logger,
	tp *telemetry.Provider,
) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAITimeout
	}

	o := &Orchestrator{
		keyword:   keyword,
		ai:        ai,
		timeout:   cfg.Timeout,
		log:       log,
		telemetry: tp,
	}
	if cfg.RatePerSecond > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), max(cfg.Burst, 1))
	}
	if cfg.BreakerFailureThreshold > 0 {
		o.breaker = circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.BreakerFailureThreshold,
			OpenTimeout:      cfg.BreakerOpenTimeout,
			OnStateChange: func(from, to circuitbreaker.State) {
				tp.SetBreakerState(int(to))
				log.Warn("AI circuit breaker state changed",
					logger.String("from", from.String()),
					logger.String("to", to.String()))
			},
		})
	}
	return o
}

// AIEnabled reports whether an AI tier is wired.
func (o *Orchestrator) AIEnabled() bool {
	return o.ai != nil
}

// Classify decides category and entity for a complaint's text.
func (o *Orchestrator) Classify(ctx context.Context, title, description string) domain.Classification {
	start := time.Now()
	ctx, span := o.telemetry.StartSpan(ctx, "classifier.classify",
		attribute.Bool("ai.enabled", o.ai != nil))
	defer span.End()

	result := o.classify(ctx, title, description)

	span.SetAttributes(
		attribute.String("classification.method", string(result.Method)),
		attribute.String("classification.category", result.Category),
		attribute.String("classification.entity", result.Entity.ID),
	)
	o.telemetry.RecordClassification(string(result.Method), time.Since(start))
	return result
}

func (o *Orchestrator) classify(ctx context.Context, title, description string) domain.Classification {
	if o.ai == nil {
		return o.keywordResult(title, description, domain.MethodKeyword)
	}

	if o.limiter != nil && !o.limiter.Allow() {
		o.log.Warn("AI classification throttled, using keywords")
		return o.keywordResult(title, description, domain.MethodKeywordThrottled)
	}

	outcome, err := o.guardedAI(ctx, title, description)
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		o.log.Debug("AI circuit open, using keywords")
		return o.keywordResult(title, description, domain.MethodKeywordCircuitOpen)
	}
	if outcome.OK() {
		return outcome.Classification
	}

	o.log.Warn("AI classification unavailable, using keywords",
		logger.String("provider", o.ai.Provider()),
		logger.String("reason", outcome.Reason))
	return o.keywordResult(title, description, domain.MethodKeywordFallback)
}

func (o *Orchestrator) keywordResult(title, description string, method domain.ClassificationMethod) domain.Classification {
	c := o.keyword.Classify(title, description)
	c.Method = method
	return c
}

// guardedAI runs one AI attempt through the breaker. The error is only
// non-nil when the breaker refused the call or the attempt failed.
func (o *Orchestrator) guardedAI(ctx context.Context, title, description string) (AIOutcome, error) {
	var outcome AIOutcome
	attempt := func(ctx context.Context) error {
		outcome = o.boundedAI(ctx, title, description)
		if !outcome.OK() {
			return errors.New(outcome.Reason)
		}
		return nil
	}

	if o.breaker == nil {
		return outcome, attempt(ctx)
	}
	err := o.breaker.Execute(ctx, attempt)
	return outcome, err
}

// boundedAI enforces the hard deadline even if the provider ignores ctx,
// and turns a panic in the AI path into an Unavailable outcome.
func (o *Orchestrator) boundedAI(ctx context.Context, title, description string) AIOutcome {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan AIOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- unavailable(fmt.Sprintf("panic: %v", r))
			}
		}()
		done <- o.ai.Classify(ctx, title, description)
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		return unavailable("timeout: " + ctx.Err().Error())
	}
}
