package validator

import (
	"context"

	"rpaetl/internal/domain"
)

// Rule is one weighted trust rule evaluated during VALIDATE.
type Rule interface {
	Evaluate(ctx context.Context, payload *domain.ExtractionResult) *domain.ValidationIssue
	Code() string
	Name() string
	Severity() domain.Severity
	Penalty() float64
}
