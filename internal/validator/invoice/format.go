package invoice

import (
	"fmt"

	"rpaetl/internal/domain"
	"rpaetl/internal/fiscal"
)

// FormatRules returns rules that re-check present values with the fiscal validators.
// An absent value never fails a format rule; the required rules cover that case.
func FormatRules() []*BuiltinRule {
	return []*BuiltinRule{
		{
			code: CodeInvalidIssuerCNPJ, name: "Issuer CNPJ Checksum", field: "issuer.tax_id",
			sev: domain.SeverityError, penalty: 1.0,
			check: func(p *domain.ExtractionResult) (string, bool) {
				id := partyTaxID(p.Issuer)
				if id == nil || *id == "" {
					return "", false
				}
				res := fiscal.ValidateCNPJ(*id)
				if res.Valid {
					return "", false
				}
				return fmt.Sprintf("CNPJ do emitente inválido: %s", res.Reason), true
			},
		},
		{
			code: CodeInvalidTotalFormat, name: "Total Amount Format", field: "financials.total",
			sev: domain.SeverityWarning, penalty: 0.3,
			check: func(p *domain.ExtractionResult) (string, bool) {
				total := p.Financials.Total
				if total == nil || *total == "" {
					return "", false
				}
				res := fiscal.ValidateMoney(*total, fiscal.FiscalBRL)
				if res.Valid {
					return "", false
				}
				return fmt.Sprintf("valor total inválido: %s", res.Reason), true
			},
		},
		{
			code: CodeInvalidKey, name: "Access Key Checksum", field: "access_key",
			sev: domain.SeverityWarning, penalty: 0.2,
			check: func(p *domain.ExtractionResult) (string, bool) {
				if p.AccessKey == nil || *p.AccessKey == "" {
					return "", false
				}
				res := fiscal.ValidateAccessKey(*p.AccessKey)
				if res.Valid {
					return "", false
				}
				return fmt.Sprintf("chave de acesso inválida: %s", res.Reason), true
			},
		},
	}
}
