// Package extractor pulls invoice fields out of normalized text. Dates and
// the access key are searched in the whole text; parties, items and totals
// only inside their own segmented block.
package extractor

import "regexp"

// Ordered pattern lists: the first pattern that yields an acceptable
// candidate wins.
var (
	EmissionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)EMISS[AÃ]O.*?(\d{2}/\d{2}/\d{4}(?:\s*\d{2}:\d{2}:\d{2})?)`),
		regexp.MustCompile(`(?i)DATA\s+DE\s+EMISS[AÃ]O.*?(\d{2}/\d{2}/\d{4})`),
	}
	EmissionFallback = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)

	CompetencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)COMPET[EÊ]NCIA.*?(\d{2}/\d{4})`),
		regexp.MustCompile(`(?i)COMPET[EÊ]NCIA.*?(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(?i)COMPET[EÊ]NCIA.*?(\d{2}-\d{4})`),
	}

	// TotalPatterns go from the most specific caption to a bare R$ amount.
	TotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)VALOR\s+L[IÍ]QUIDO\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`(?i)TOTAL\s+GERAL\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`(?i)VALOR\s+TOTAL\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`(?i)TOTAL\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`(?i)R\$\s*([\d.,]+)`),
	}
)

var (
	accessKeyPattern = regexp.MustCompile(`\b\d{44}\b`)
	cnpjPattern      = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\.?\d{4}-?\d{2}\b`)
	valuePattern     = regexp.MustCompile(`R?\$?\s*(\d+(?:[.,]\d{3})*[.,]\d{2})\b`)
	currencySymbol   = regexp.MustCompile(`R\$\s*`)
	taxPattern       = regexp.MustCompile(`(?i)\b(ISSQN|ISS|PIS|COFINS|CSLL|IRRF|IRPJ|INSS|ICMS|IPI)\b[^\n]*?R\$\s*([\d.,]+)`)
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern     = regexp.MustCompile(`(?i)(?:TELEFONE|TEL|FONE)\s*[.:]?\s*(\(?\d{2}\)?\s*\d{4,5}-?\d{4})`)
	addressPattern   = regexp.MustCompile(`(?i)^ENDERE[CÇ]O\s*:?\s*(.+)$`)
	municipalPattern = regexp.MustCompile(`(?i)INSCRI[CÇ][AÃ]O\s+MUNICIPAL\s*:?\s*([\d./-]+)`)
)
