package extractor

import (
	"strings"
	"unicode/utf8"

	"rpaetl/internal/domain"
	"rpaetl/internal/fiscal"
)

const (
	minItemLineLength         = 10
	minContinuationLineLength = 15
)

// ItemNoiseTokens mark caption and summary lines of the items block.
var ItemNoiseTokens = []string{"TOTAL", "VALOR", "DATA", "COMPETÊNCIA", "COMPETENCIA", "DISCRIMINA"}

// ExtractItems reads the items block line by line. A line with BRL amounts
// becomes an item whose unit value is the last amount; a long line without
// amounts becomes a description-only continuation item.
func ExtractItems(block string) []domain.Item {
	items := []domain.Item{}
	for _, ln := range strings.Split(block, "\n") {
		ln = strings.TrimSpace(ln)
		length := utf8.RuneCountInString(ln)
		if length < minItemLineLength || isItemNoise(ln) {
			continue
		}

		var amounts []string
		var desc strings.Builder
		last := 0
		for _, loc := range valuePattern.FindAllStringSubmatchIndex(ln, -1) {
			amount := ln[loc[2]:loc[3]]
			if !fiscal.ValidateMoney(amount, fiscal.FiscalBRL).Valid {
				continue
			}
			amounts = append(amounts, amount)
			desc.WriteString(ln[last:loc[2]])
			desc.WriteByte(' ')
			last = loc[3]
		}

		if len(amounts) > 0 {
			desc.WriteString(ln[last:])
			description := strings.Join(strings.Fields(currencySymbol.ReplaceAllString(desc.String(), "")), " ")
			if description == "" {
				continue
			}
			unit := amounts[len(amounts)-1]
			items = append(items, domain.Item{Description: description, UnitValue: &unit, Raw: ln})
			continue
		}

		if length > minContinuationLineLength {
			items = append(items, domain.Item{Description: ln, Raw: ln})
		}
	}
	return items
}

func isItemNoise(line string) bool {
	upper := strings.ToUpper(line)
	for _, tok := range ItemNoiseTokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	return false
}
