package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpaetl/internal/domain"
	"rpaetl/internal/extractor"
	"rpaetl/internal/segmenter"
)

func TestExtract_NFSeDocument(t *testing.T) {
	text := normalized(t, nfseDocument)
	res := extractor.Extract(text, "nfse.pdf")

	assert.Equal(t, "15/12/2024 10:30:00", deref(res.EmissionDate))
	assert.Equal(t, "12/2024", deref(res.CompetenceDate))
	assert.Nil(t, res.AccessKey)

	require.NotNil(t, res.Issuer)
	assert.Equal(t, "EMPRESA ABC TECNOLOGIA LTDA", deref(res.Issuer.Name))
	assert.Equal(t, "04.252.011/0001-10", deref(res.Issuer.TaxID))
	assert.Equal(t, "Rua Teste, 123 - São Paulo/SP", deref(res.Issuer.Address))
	assert.Equal(t, "123456789-0", deref(res.Issuer.MunicipalRegistration))

	require.NotNil(t, res.Recipient)
	assert.Equal(t, "CLIENTE XYZ INDÚSTRIA S.A", deref(res.Recipient.Name))
	assert.Equal(t, "11.222.333/0001-81", deref(res.Recipient.TaxID))

	require.Len(t, res.Items, 3)
	assert.Equal(t, "Desenvolvimento de software customizado 10 HRS", res.Items[0].Description)
	assert.Equal(t, "2000,00", deref(res.Items[0].UnitValue))
	assert.Equal(t, "1250,00", deref(res.Items[1].UnitValue))

	assert.Equal(t, "R$ 4.227,50", deref(res.Financials.Total))
	assert.Equal(t, map[string]string{"ISS": "R$ 222,50"}, res.Financials.Taxes)

	assert.Equal(t, text, res.RawText)
	assert.Equal(t, "nfse.pdf", res.SourceFilename)
	assert.Empty(t, res.FieldErrors)
}

func TestExtract_EmptyText(t *testing.T) {
	res := extractor.Extract("", "")

	assert.Nil(t, res.EmissionDate)
	assert.Nil(t, res.Issuer)
	assert.Nil(t, res.Recipient)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Nil(t, res.Financials.Total)
}

func TestExtractWith_IsolatesFieldFailures(t *testing.T) {
	broken := extractor.Field{
		Name: "broken",
		Apply: func(string, segmenter.Blocks, *domain.ExtractionResult) {
			panic("layout not supported")
		},
	}
	fields := append([]extractor.Field{broken}, extractor.DefaultFields()...)

	res := extractor.ExtractWith(normalized(t, nfseDocument), "", fields)

	require.Len(t, res.FieldErrors, 1)
	assert.Equal(t, "broken", res.FieldErrors[0].Field)
	assert.Equal(t, "layout not supported", res.FieldErrors[0].Message)
	require.NotNil(t, res.Issuer)
	assert.Equal(t, "R$ 4.227,50", deref(res.Financials.Total))
}

func TestExtract_Deterministic(t *testing.T) {
	text := normalized(t, nfseDocument)
	assert.Equal(t, extractor.Extract(text, "a"), extractor.Extract(text, "a"))
}
