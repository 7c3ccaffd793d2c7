package validator

import (
	"context"

	"github.com/shopspring/decimal"

	"rpaetl/internal/domain"
)

const scorePlaces = 4

// Evaluation is the outcome of running every rule against one payload.
type Evaluation struct {
	Issues     []domain.ValidationIssue
	TrustScore float64
	Status     domain.PipelineStatus
}

// HasErrors reports whether any error-severity issue was raised.
func (e Evaluation) HasErrors() bool {
	for _, is := range e.Issues {
		if is.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}

// Engine scores an extracted payload against the registered rules.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new trust-scoring engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Evaluate runs the rules in registration order. The trust score starts at 1,
// loses each raised rule's penalty, and is clamped to [0, 1].
func (e *Engine) Evaluate(ctx context.Context, payload *domain.ExtractionResult) Evaluation {
	issues := []domain.ValidationIssue{}
	score := decimal.NewFromInt(1)

	for _, rule := range e.registry.All() {
		issue := rule.Evaluate(ctx, payload)
		if issue == nil {
			continue
		}
		issues = append(issues, *issue)
		score = score.Sub(decimal.NewFromFloat(rule.Penalty()))
	}

	score = decimal.Max(decimal.Zero, decimal.Min(decimal.NewFromInt(1), score)).Round(scorePlaces)
	ev := Evaluation{Issues: issues, TrustScore: score.InexactFloat64()}

	switch {
	case ev.HasErrors():
		ev.Status = domain.PipelineError
	case len(issues) > 0 || ev.TrustScore < 1:
		ev.Status = domain.PipelinePartial
	default:
		ev.Status = domain.PipelineSuccess
	}
	return ev
}
