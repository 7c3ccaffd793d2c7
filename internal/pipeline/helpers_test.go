package pipeline_test

import (
	"rpaetl/internal/domain"
)

// nfseDocument is a complete São Paulo NFS-e text layer.
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

// noRecipientDocument has a valid issuer and total but no recipient block.
const noRecipientDocument = "NOTA FISCAL\nPRESTADOR DE SERVIÇOS\nEMPRESA ABC LTDA\nCNPJ: 04.252.011/0001-10\nVALOR TOTAL: R$ 1.500,00\n"

// badIssuerDocument carries an issuer CNPJ with a wrong check digit.
const badIssuerDocument = "NOTA FISCAL\nPRESTADOR DE SERVIÇOS\nEMPRESA ABC LTDA\nCNPJ: 12.345.678/0001-00\n" +
	"TOMADOR DE SERVIÇOS\nCLIENTE XYZ S.A.\nCNPJ: 11.222.333/0001-81\nVALOR TOTAL: R$ 1.500,00\n"

func strPtr(s string) *string { return &s }

func testContext() domain.BusinessContext {
	return domain.BusinessContext{
		TenantID:    "acme",
		TraceID:     "trace-1",
		ExecutionID: "acme_000000000001",
	}
}

func stages(events []domain.OrchestratorEvent) []domain.Stage {
	out := make([]domain.Stage, 0, len(events))
	for _, e := range events {
		out = append(out, e.Stage)
	}
	return out
}

func issueCodes(issues []domain.ValidationIssue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Code)
	}
	return out
}
