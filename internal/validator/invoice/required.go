package invoice

import (
	"fmt"

	"rpaetl/internal/domain"
)

// RequiredFieldRules returns rules that flag absent fields.
func RequiredFieldRules() []*BuiltinRule {
	return []*BuiltinRule{
		requiredField(CodeMissingIssuer, "Issuer Tax ID", "issuer.tax_id", domain.SeverityError, 1.0,
			func(p *domain.ExtractionResult) *string { return partyTaxID(p.Issuer) }),
		requiredField(CodeMissingRecipient, "Recipient Tax ID", "recipient.tax_id", domain.SeverityWarning, 0.1,
			func(p *domain.ExtractionResult) *string { return partyTaxID(p.Recipient) }),
		requiredField(CodeMissingTotal, "Total Amount", "financials.total", domain.SeverityError, 0.5,
			func(p *domain.ExtractionResult) *string { return p.Financials.Total }),
	}
}

func requiredField(code, name, field string, sev domain.Severity, penalty float64, extract func(*domain.ExtractionResult) *string) *BuiltinRule {
	return &BuiltinRule{
		code: code, name: name, field: field, sev: sev, penalty: penalty,
		check: func(p *domain.ExtractionResult) (string, bool) {
			if v := extract(p); v != nil && *v != "" {
				return "", false
			}
			return fmt.Sprintf("%s: %s ausente", name, field), true
		},
	}
}

func partyTaxID(p *domain.Party) *string {
	if p == nil {
		return nil
	}
	return p.TaxID
}
