package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rpaetl/internal/normalizer"
)

// nfseDocument is the text layer of a São Paulo NFS-e as returned by the PDF reader.
const nfseDocument = `
    PREFEITURA MUNICIPAL DE SÃO PAULO
    NOTA FISCAL DE SERVIÇOS ELETRÔNICA - NFS-e

    Número: 123456
    Data de Emissão: 15/12/2024 10:30:00
    Competência: 12/2024

    PRESTADOR DE SERVIÇOS
    EMPRESA ABC TECNOLOGIA LTDA
    CNPJ: 04.252.011/0001-10
    Inscrição Municipal: 123.456.789-0
    Endereço: Rua Teste, 123 - São Paulo/SP

    TOMADOR DE SERVIÇOS
    CLIENTE XYZ INDÚSTRIA S.A.
    CNPJ: 11.222.333/0001-81
    Endereço: Av Principal, 456 - São Paulo/SP

    DISCRIMINAÇÃO DOS SERVIÇOS
    Desenvolvimento de software customizado        10 HRS    R$ 200,00    R$ 2.000,00
    Consultoria em arquitetura de sistemas         5 HRS    R$ 250,00    R$ 1.250,00
    Treinamento técnico da equipe                  8 HRS    R$ 150,00    R$ 1.200,00

    VALOR TOTAL DOS SERVIÇOS: R$ 4.450,00

    TRIBUTOS:
    ISS (5%): R$ 222,50

    VALOR LÍQUIDO: R$ 4.227,50

    OBSERVAÇÕES:
    Serviços prestados conforme contrato 2024/001
`

func normalized(t *testing.T, raw string) string {
	t.Helper()
	out, err := normalizer.Normalize(raw)
	require.NoError(t, err)
	return out
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
