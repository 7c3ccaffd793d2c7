// Package export renders pipeline results as CSV or XLSX reports.
package export

import (
	"strconv"
	"strings"
	"time"

	"rpaetl/internal/domain"
)

// summaryColumns is the header of the one-row-per-execution report.
var summaryColumns = []string{
	"Execution ID",
	"Tenant ID",
	"Trace ID",
	"Source",
	"Status",
	"Trust Score",
	"Emission Date",
	"Competence",
	"Access Key",
	"Issuer Name",
	"Issuer CNPJ",
	"Recipient Name",
	"Recipient CNPJ",
	"Total",
	"Item Count",
	"Issue Codes",
	"Input SHA-256",
	"Start Time",
	"Duration (ms)",
}

// summaryRow flattens one result. Payload columns stay empty for aborted runs.
func summaryRow(r *domain.PipelineResult) []string {
	row := make([]string, len(summaryColumns))
	row[0] = r.ExecutionID
	row[1] = r.TenantID
	row[2] = r.TraceID
	row[4] = string(r.Status)
	row[5] = strconv.FormatFloat(r.TrustScore, 'f', 4, 64)
	row[15] = issueCodes(r.ValidationIssues)
	row[16] = r.RawMetadata.InputHashSHA256
	row[17] = r.StartTime.UTC().Format(time.RFC3339)
	row[18] = strconv.FormatInt(r.TotalDuration().Milliseconds(), 10)

	p := r.Payload
	if p == nil {
		return row
	}
	row[3] = p.SourceFilename
	row[6] = deref(p.EmissionDate)
	row[7] = deref(p.CompetenceDate)
	row[8] = deref(p.AccessKey)
	if p.Issuer != nil {
		row[9] = deref(p.Issuer.Name)
		row[10] = deref(p.Issuer.TaxID)
	}
	if p.Recipient != nil {
		row[11] = deref(p.Recipient.Name)
		row[12] = deref(p.Recipient.TaxID)
	}
	row[13] = deref(p.Financials.Total)
	row[14] = strconv.Itoa(len(p.Items))
	return row
}

func issueCodes(issues []domain.ValidationIssue) string {
	codes := make([]string, 0, len(issues))
	for _, is := range issues {
		codes = append(codes, is.Code)
	}
	return strings.Join(codes, ";")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
