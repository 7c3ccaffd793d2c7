package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rpaetl/internal/domain"
	"rpaetl/internal/export"
)

func strPtr(s string) *string { return &s }

func sampleResult() *domain.PipelineResult {
	start := time.Date(2024, 12, 15, 13, 30, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	return &domain.PipelineResult{
		TraceID:     "trace-1",
		ExecutionID: "acme_000000000001",
		TenantID:    "acme",
		StartTime:   start,
		EndTime:     &end,
		Status:      domain.PipelinePartial,
		TrustScore:  0.9,
		Events: []domain.OrchestratorEvent{
			{Stage: domain.StageRead, Status: domain.EventSuccess, Timestamp: start, ErrorPolicy: domain.PolicyContinue, Details: map[string]any{"page_count": 1}},
			{Stage: domain.StageValidate, Status: domain.EventSuccess, Timestamp: end, ErrorPolicy: domain.PolicyContinue, Details: map[string]any{"issues_count": 1}},
		},
		ValidationIssues: []domain.ValidationIssue{
			{Code: "MISSING_RECIPIENT", Field: "recipient.tax_id", Message: "Tomador: CNPJ/CPF ausente", Severity: domain.SeverityWarning},
		},
		Payload: &domain.ExtractionResult{
			EmissionDate:   strPtr("15/12/2024"),
			Issuer:         &domain.Party{Name: strPtr("EMPRESA ABC LTDA"), TaxID: strPtr("04.252.011/0001-10")},
			Items:          []domain.Item{{Description: "Consultoria", UnitValue: strPtr("1.500,00"), Raw: "Consultoria R$ 1.500,00"}},
			Financials:     domain.Financials{Total: strPtr("R$ 1.500,00")},
			SourceFilename: "nota.pdf",
		},
		RawMetadata: domain.RawMetadata{InputHashSHA256: "abc123"},
	}
}

func abortedResult() *domain.PipelineResult {
	return &domain.PipelineResult{
		TraceID:     "trace-2",
		ExecutionID: "acme_000000000002",
		TenantID:    "acme",
		StartTime:   time.Date(2024, 12, 15, 13, 31, 0, 0, time.UTC),
		Status:      domain.PipelineError,
		Events: []domain.OrchestratorEvent{
			{Stage: domain.StageRead, Status: domain.EventFailure, ErrorPolicy: domain.PolicyAbort, Details: map[string]any{"error": "document not found"}},
		},
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteResults([]*domain.PipelineResult{sampleResult(), abortedResult()}))
	w.Flush()
	require.NoError(t, w.Error())

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, export.BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Execution ID", header[0])
	assert.Len(t, records[1], len(header))
	assert.Len(t, records[2], len(header))

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q not found", name)
		return -1
	}

	row := records[1]
	assert.Equal(t, "acme_000000000001", row[col("Execution ID")])
	assert.Equal(t, "partial", row[col("Status")])
	assert.Equal(t, "0.9000", row[col("Trust Score")])
	assert.Equal(t, "04.252.011/0001-10", row[col("Issuer CNPJ")])
	assert.Equal(t, "R$ 1.500,00", row[col("Total")])
	assert.Equal(t, "1", row[col("Item Count")])
	assert.Equal(t, "MISSING_RECIPIENT", row[col("Issue Codes")])
	assert.Equal(t, "1500", row[col("Duration (ms)")])
	assert.Equal(t, "nota.pdf", row[col("Source")])

	aborted := records[2]
	assert.Equal(t, "error", aborted[col("Status")])
	assert.Empty(t, aborted[col("Issuer CNPJ")])
	assert.Equal(t, "0", aborted[col("Duration (ms)")])
}

func TestXLSX(t *testing.T) {
	data, err := export.XLSX([]*domain.PipelineResult{sampleResult(), abortedResult()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{export.SheetSummary, export.SheetItems, export.SheetIssues, export.SheetAudit}, f.GetSheetList())

	summary, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "acme_000000000001", summary[1][0])
	assert.Equal(t, "acme_000000000002", summary[2][0])

	items, err := f.GetRows(export.SheetItems)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Consultoria", items[1][2])
	assert.Equal(t, "1.500,00", items[1][3])

	issues, err := f.GetRows(export.SheetIssues)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "MISSING_RECIPIENT", issues[1][1])
	assert.Equal(t, "warning", issues[1][2])

	audit, err := f.GetRows(export.SheetAudit)
	require.NoError(t, err)
	require.Len(t, audit, 4)
	assert.Equal(t, "READ", audit[3][2])
	assert.Equal(t, "FAILURE", audit[3][3])
	assert.Equal(t, "ABORT", audit[3][4])
	assert.JSONEq(t, `{"error":"document not found"}`, audit[3][6])
}

func TestXLSX_Empty(t *testing.T) {
	data, err := export.XLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
