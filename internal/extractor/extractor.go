package extractor

import (
	"fmt"

	"rpaetl/internal/domain"
	"rpaetl/internal/segmenter"
)

// Field fills one part of an ExtractionResult from the full text and its blocks.
type Field struct {
	Name  string
	Apply func(text string, blocks segmenter.Blocks, res *domain.ExtractionResult)
}

// DefaultFields is the extraction plan run by Extract.
func DefaultFields() []Field {
	return []Field{
		{Name: "dates", Apply: func(text string, _ segmenter.Blocks, res *domain.ExtractionResult) {
			res.EmissionDate, res.CompetenceDate = ExtractDates(text)
		}},
		{Name: "access_key", Apply: func(text string, _ segmenter.Blocks, res *domain.ExtractionResult) {
			res.AccessKey = ExtractAccessKey(text)
		}},
		{Name: "issuer", Apply: func(_ string, b segmenter.Blocks, res *domain.ExtractionResult) {
			res.Issuer = ExtractParty(b.Get(domain.BlockIssuer))
		}},
		{Name: "recipient", Apply: func(_ string, b segmenter.Blocks, res *domain.ExtractionResult) {
			res.Recipient = ExtractParty(b.Get(domain.BlockRecipient))
		}},
		{Name: "financials.total", Apply: func(_ string, b segmenter.Blocks, res *domain.ExtractionResult) {
			res.Financials.Total = ExtractTotal(b.Get(domain.BlockFinancials))
		}},
		{Name: "financials.taxes", Apply: func(_ string, b segmenter.Blocks, res *domain.ExtractionResult) {
			res.Financials.Taxes = ExtractTaxes(b.Get(domain.BlockFinancials))
		}},
		{Name: "items", Apply: func(_ string, b segmenter.Blocks, res *domain.ExtractionResult) {
			res.Items = ExtractItems(b.Get(domain.BlockItems))
		}},
	}
}

// Extract runs DefaultFields over normalized text.
func Extract(text, source string) *domain.ExtractionResult {
	return ExtractWith(text, source, DefaultFields())
}

// ExtractWith segments text and applies every field in order. A field that
// panics leaves its value null and is recorded in FieldErrors; the remaining
// fields still run.
func ExtractWith(text, source string, fields []Field) *domain.ExtractionResult {
	res := &domain.ExtractionResult{
		Items:          []domain.Item{},
		RawText:        text,
		SourceFilename: source,
	}
	blocks := segmenter.Segment(text)
	for _, f := range fields {
		applyIsolated(f, text, blocks, res)
	}
	return res
}

func applyIsolated(f Field, text string, blocks segmenter.Blocks, res *domain.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			res.FieldErrors = append(res.FieldErrors, domain.FieldError{
				Field:   f.Name,
				Message: fmt.Sprint(r),
			})
		}
	}()
	f.Apply(text, blocks, res)
}
