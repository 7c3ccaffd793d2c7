package normalizer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpaetl/internal/domain"
	"rpaetl/internal/normalizer"
)

const nfseSample = `
    PREFEITURA MUNICIPAL DE SÃO PAULO
    NOTA FISCAL DE SERVIÇOS ELETRÔNICA - NFS-e

    Número: 123456
    Data de Emissão: 15/12/2024 10:30:00
    Competência: 12/2024

    PRESTADOR DE SERVIÇOS
    EMPRESA ABC TECNOLOGIA LTDA
    CNPJ: 04.252.011/0001-10

    DISCRIMINAÇÃO DOS SERVIÇOS
    Desenvolvimento de software customizado        10 HRS    R$ 200,00    R$ 2.000,00

    VALOR TOTAL DOS SERVIÇOS: R$ 4.450,00
    PRESTADOR DE SERVIÇOS
`

func normalize(t *testing.T, in string) string {
	t.Helper()
	out, err := normalizer.Normalize(in)
	require.NoError(t, err)
	return out
}

func TestNormalize_InvisibleCharacters(t *testing.T) {
	out := normalize(t, "VALOR\u00a0\u00a0TOTAL\n400 , 00")
	assert.Equal(t, "VALOR TOTAL\n400,00", out)
}

func TestNormalize_ZeroWidthAndCRLF(t *testing.T) {
	out := normalize(t, "NOTA\u200b FISCAL\r\nEMITENTE\r\n")
	assert.Equal(t, "NOTA FISCAL\nEMITENTE", out)
}

func TestNormalize_ControlCharacters(t *testing.T) {
	assert.Equal(t, "ABCDEF", normalize(t, "ABC\x07DEF"))
}

func TestNormalize_PreservesStructure(t *testing.T) {
	raw := `
    PRESTADOR DE SERVIÇOS
    EMPRESA TESTE LTDA

    TOMADOR DE SERVIÇO
    CLIENTE TESTE LTDA
    `
	out := normalize(t, raw)

	assert.Equal(t, "PRESTADOR DE SERVIÇOS\nEMPRESA TESTE LTDA\nTOMADOR DE SERVIÇO\nCLIENTE TESTE LTDA", out)
}

func TestNormalize_JoinsSplitDigits(t *testing.T) {
	assert.Equal(t, "CHAVE 352412049", normalize(t, "CHAVE 3524 1204 9"))
	assert.Equal(t, "NUMERO 12345678 ABC", normalize(t, "NUMERO 12345\n678 ABC"))
}

func TestNormalize_DateTimeSpacing(t *testing.T) {
	assert.Equal(t, "Data de Emissão: 15/12/2024 10:30:00", normalize(t, "Data de Emissão: 15/12/2024 10:30:00"))
	assert.Equal(t, "EMISSAO 15/12/2024 10:30", normalize(t, "EMISSAO 15/12/202410:30"))
}

func TestNormalize_Separators(t *testing.T) {
	assert.Equal(t, "TOTAL R$ 1234567,89", normalize(t, "TOTAL R$ 1.234.567 , 89"))
	assert.Equal(t, "CNPJ 04252011/0001-10", normalize(t, "CNPJ 04.252.011/0001-10"))
}

func TestNormalize_ShortLines(t *testing.T) {
	out := normalize(t, "sp\nab\nx\n12\nOK!\nCPF")
	assert.Equal(t, "sp\n12\nOK!\nCPF", out)
}

func TestNormalize_DeduplicatesLines(t *testing.T) {
	out := normalize(t, "LINHA A\nLINHA B\nLINHA A\nLINHA C\nLINHA B")
	assert.Equal(t, "LINHA A\nLINHA B\nLINHA C", out)
}

func TestNormalize_NotText(t *testing.T) {
	for _, in := range []string{string([]byte{0xff, 0xfe, 0x00}), "abc\x00def"} {
		_, err := normalizer.Normalize(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotText))
	}

	_, err := normalizer.NormalizeBytes([]byte{0x25, 0x50, 0xc3, 0x28})
	assert.ErrorIs(t, err, domain.ErrNotText)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		nfseSample,
		"12\nab\n34",
		"EMISSAO 15/12/202410:30",
		"R$ 1 . 234 , 56\n\n\n\nFIM DO DOCUMENTO",
		"",
		"a12b\nc34d\ne56f\ng78h\ng7\ne5\nc3\na1\nxx\n2b\n4d\n6f\n8h",
	}
	for _, in := range inputs {
		once := normalize(t, in)
		assert.Equal(t, once, normalize(t, once), "input %q", in)
	}
}

func TestNormalize_CascadingMerges(t *testing.T) {
	// Each round of dropped and repeated lines exposes the next digit merge.
	in := "a12b\nc34d\ne56f\ng78h\ng7\ne5\nc3\na1\nxx\n2b\n4d\n6f\n8h"
	assert.Equal(t, "a12b\nc34d\ne56f\ng78h", normalize(t, in))
}

func TestNormalize_Deterministic(t *testing.T) {
	assert.Equal(t, normalize(t, nfseSample), normalize(t, nfseSample))
}

func TestNormalize_SampleDocument(t *testing.T) {
	out := normalize(t, nfseSample)

	assert.Contains(t, out, "Data de Emissão: 15/12/2024 10:30:00")
	assert.Contains(t, out, "VALOR TOTAL DOS SERVIÇOS: R$ 4450,00")
	assert.Contains(t, out, "R$ 200,00 R$ 2000,00")
	assert.NotContains(t, out, "\n\n")
}
