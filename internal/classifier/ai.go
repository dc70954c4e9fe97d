package classifier

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// Completer sends a prompt to an external text-classification service and
// returns its single text payload.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// AIOutcomeKind distinguishes a usable AI decision from a failure.
type AIOutcomeKind int

const (
	AIUnavailable AIOutcomeKind = iota
	AIOK
)

// AIOutcome is the adapter's result. Failures are values, never panics or
// errors the caller must unwrap.
type AIOutcome struct {
	Kind           AIOutcomeKind
	Classification domain.Classification
	// Reason explains an Unavailable outcome.
	Reason string
}

// OK reports whether the outcome carries a classification.
func (o AIOutcome) OK() bool {
	return o.Kind == AIOK
}

func unavailable(reason string) AIOutcome {
	return AIOutcome{Kind: AIUnavailable, Reason: reason}
}

// AIClassifier asks an external service for a category and entity id. It
// makes exactly one attempt per call.
type AIClassifier struct {
	completer Completer
	dir       Directory
	telemetry *telemetry.Provider
}

// NewAIClassifier wires the adapter.
func NewAIClassifier(completer Completer, dir Directory, tp *telemetry.Provider) *AIClassifier {
	return &AIClassifier{completer: completer, dir: dir, telemetry: tp}
}

// Provider names the backing service.
func (a *AIClassifier) Provider() string {
	return a.completer.Name()
}

// Classify returns AIOK with method ai, or ai_fallback_entity when the
// reply names an unknown entity but a category the directory handles. A
// reply matching neither is Unavailable.
func (a *AIClassifier) Classify(ctx context.Context, title, description string) AIOutcome {
	prompt := BuildPrompt(title, description, a.dir.Active(), a.dir.Categories())

	start := time.Now()
	raw, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.telemetry.RecordAICall(a.Provider(), "error", time.Since(start))
		return unavailable("request failed: " + err.Error())
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		a.telemetry.RecordAICall(a.Provider(), "malformed", time.Since(start))
		return unavailable(err.Error())
	}
	a.telemetry.RecordAICall(a.Provider(), "ok", time.Since(start))

	method := domain.MethodAI
	entity, ok := a.findEntity(resp)
	if !ok {
		if !slices.Contains(a.dir.Categories(), resp.Category) {
			return unavailable(fmt.Sprintf("unknown entity %q and category %q", resp.EntityID+resp.Entity, resp.Category))
		}
		entity = a.dir.Fallback()
		method = domain.MethodAIFallbackEntity
	}

	return AIOutcome{
		Kind: AIOK,
		Classification: domain.Classification{
			Category:   resp.Category,
			Entity:     entity.Snapshot(),
			Method:     method,
			Confidence: resp.Percent(),
			Reasoning:  resp.Reasoning,
		},
	}
}

// findEntity prefers entity_id and falls back to the legacy entity field,
// which may hold an id or a display name.
func (a *AIClassifier) findEntity(resp AIResponse) (domain.Entity, bool) {
	if resp.EntityID != "" {
		if e, ok := a.dir.Lookup(resp.EntityID); ok {
			return e, true
		}
	}
	if resp.Entity == "" {
		return domain.Entity{}, false
	}
	if e, ok := a.dir.Lookup(resp.Entity); ok {
		return e, true
	}
	for _, e := range a.dir.Active() {
		if strings.EqualFold(e.Name, resp.Entity) {
			return e, true
		}
	}
	return domain.Entity{}, false
}
