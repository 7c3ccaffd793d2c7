package extractor

import (
	"strings"

	"rpaetl/internal/fiscal"
)

// ExtractTotal scans the financials block with TotalPatterns and returns the
// first candidate accepted as a BRL amount, in canonical form.
func ExtractTotal(block string) *string {
	if strings.TrimSpace(block) == "" {
		return nil
	}
	for _, p := range TotalPatterns {
		for _, m := range p.FindAllStringSubmatch(block, -1) {
			candidate := strings.TrimRight(m[1], ".,")
			if res := fiscal.ValidateMoney(candidate, fiscal.FiscalBRL); res.Valid {
				return &res.Formatted
			}
		}
	}
	return nil
}

// ExtractTaxes collects withheld or due taxes of the financials block keyed by tax name.
func ExtractTaxes(block string) map[string]string {
	var taxes map[string]string
	for _, m := range taxPattern.FindAllStringSubmatch(block, -1) {
		name := strings.ToUpper(m[1])
		if _, seen := taxes[name]; seen {
			continue
		}
		res := fiscal.ValidateMoney(strings.TrimRight(m[2], ".,"), fiscal.FiscalBRL)
		if !res.Valid {
			continue
		}
		if taxes == nil {
			taxes = make(map[string]string)
		}
		taxes[name] = res.Formatted
	}
	return taxes
}
