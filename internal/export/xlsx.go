package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"rpaetl/internal/domain"
)

// Sheet names of the workbook.
const (
	SheetSummary = "Summary"
	SheetItems   = "Items"
	SheetIssues  = "Issues"
	SheetAudit   = "Audit Trail"
)

var (
	itemColumns  = []string{"Execution ID", "Line", "Description", "Unit Value", "Raw Line"}
	issueColumns = []string{"Execution ID", "Code", "Severity", "Field", "Message"}
	auditColumns = []string{"Execution ID", "Index", "Stage", "Status", "Error Policy", "Timestamp", "Details"}
)

// XLSX renders results as a workbook with summary, items, issues and audit sheets.
func XLSX(results []*domain.PipelineResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with "Sheet1"; rename it instead of leaving it empty.
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("export.XLSX: %w", err)
	}
	for _, name := range []string{SheetItems, SheetIssues, SheetAudit} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("export.XLSX: %w", err)
		}
	}

	summary := newSheetWriter(f, SheetSummary, summaryColumns)
	items := newSheetWriter(f, SheetItems, itemColumns)
	issues := newSheetWriter(f, SheetIssues, issueColumns)
	audit := newSheetWriter(f, SheetAudit, auditColumns)

	for _, r := range results {
		summary.append(stringsToAny(summaryRow(r)))
		if r.Payload != nil {
			for i, it := range r.Payload.Items {
				items.append([]any{r.ExecutionID, i + 1, it.Description, deref(it.UnitValue), it.Raw})
			}
		}
		for _, is := range r.ValidationIssues {
			issues.append([]any{r.ExecutionID, is.Code, string(is.Severity), is.Field, is.Message})
		}
		for i, ev := range r.Events {
			details, _ := json.Marshal(ev.Details)
			audit.append([]any{
				r.ExecutionID, i, string(ev.Stage), string(ev.Status), string(ev.ErrorPolicy),
				ev.Timestamp.UTC().Format(time.RFC3339Nano), string(details),
			})
		}
	}

	for _, w := range []*sheetWriter{summary, items, issues, audit} {
		if w.err != nil {
			return nil, fmt.Errorf("export.XLSX: %s: %w", w.sheet, w.err)
		}
	}

	_ = f.SetColWidth(SheetSummary, "A", "C", 24)
	_ = f.SetColWidth(SheetSummary, "I", "I", 56) // access key
	_ = f.SetColWidth(SheetSummary, "J", "L", 32)
	_ = f.SetColWidth(SheetItems, "C", "C", 48)
	_ = f.SetColWidth(SheetIssues, "E", "E", 64)
	_ = f.SetColWidth(SheetAudit, "G", "G", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.XLSX: write: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows below a bold header and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func newSheetWriter(f *excelize.File, sheet string, header []string) *sheetWriter {
	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	w.append(stringsToAny(header))
	if w.err == nil {
		if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
			end, _ := excelize.CoordinatesToCellName(len(header), 1)
			w.err = f.SetCellStyle(sheet, "A1", end, style)
		}
	}
	return w
}

func (w *sheetWriter) append(values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	w.row++
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
