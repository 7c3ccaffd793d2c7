package invoice_test

import (
	"rpaetl/internal/domain"
	"rpaetl/internal/validator/invoice"
)

func strPtr(s string) *string { return &s }

// validPayload returns an extraction that passes every built-in rule.
func validPayload() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		AccessKey: strPtr("3524 1204 2520 1100 0110 5500 1000 0012 3450 1234 5670"),
		Issuer: &domain.Party{
			Name:  strPtr("EMPRESA ABC TECNOLOGIA LTDA"),
			TaxID: strPtr("04.252.011/0001-10"),
		},
		Recipient: &domain.Party{
			Name:  strPtr("CLIENTE XYZ INDÚSTRIA S.A"),
			TaxID: strPtr("11.222.333/0001-81"),
		},
		Items:      []domain.Item{},
		Financials: domain.Financials{Total: strPtr("R$ 4.227,50")},
	}
}

func findRule(code string) *invoice.BuiltinRule {
	for _, r := range invoice.AllBuiltinRules() {
		if r.Code() == code {
			return r
		}
	}
	return nil
}
