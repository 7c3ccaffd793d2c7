package invoice

import (
	"context"

	"rpaetl/internal/domain"
)

// Rule codes raised during VALIDATE.
const (
	CodeMissingIssuer      = "MISSING_ISSUER"
	CodeInvalidIssuerCNPJ  = "INVALID_ISSUER_CNPJ"
	CodeMissingRecipient   = "MISSING_RECIPIENT"
	CodeMissingTotal       = "MISSING_TOTAL"
	CodeInvalidTotalFormat = "INVALID_TOTAL_FORMAT"
	CodeInvalidKey         = "INVALID_KEY"
)

// BuiltinRule wraps a check function and its scoring metadata for the registry.
type BuiltinRule struct {
	code    string
	name    string
	field   string
	sev     domain.Severity
	penalty float64
	check   func(*domain.ExtractionResult) (string, bool)
}

func (b *BuiltinRule) Code() string              { return b.code }
func (b *BuiltinRule) Name() string              { return b.name }
func (b *BuiltinRule) Field() string             { return b.field }
func (b *BuiltinRule) Severity() domain.Severity { return b.sev }
func (b *BuiltinRule) Penalty() float64          { return b.penalty }

// Evaluate returns the issue raised by this rule, or nil when the payload passes.
func (b *BuiltinRule) Evaluate(_ context.Context, payload *domain.ExtractionResult) *domain.ValidationIssue {
	if payload == nil {
		payload = &domain.ExtractionResult{}
	}
	msg, failed := b.check(payload)
	if !failed {
		return nil
	}
	return &domain.ValidationIssue{
		Code:     b.code,
		Field:    b.field,
		Message:  msg,
		Severity: b.sev,
	}
}

// AllBuiltinRules returns the invoice trust rules in evaluation order.
func AllBuiltinRules() []*BuiltinRule {
	req := RequiredFieldRules()
	format := FormatRules()
	byCode := make(map[string]*BuiltinRule, len(req)+len(format))
	for _, r := range req {
		byCode[r.code] = r
	}
	for _, r := range format {
		byCode[r.code] = r
	}

	order := []string{
		CodeMissingIssuer,
		CodeInvalidIssuerCNPJ,
		CodeMissingRecipient,
		CodeMissingTotal,
		CodeInvalidTotalFormat,
		CodeInvalidKey,
	}
	all := make([]*BuiltinRule, 0, len(order))
	for _, code := range order {
		all = append(all, byCode[code])
	}
	return all
}
