package export

import (
	"encoding/csv"
	"io"

	"rpaetl/internal/domain"
)

// BOM lets Excel on Windows detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting execution summaries.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the summary header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(summaryColumns)
}

// WriteResults writes one row per result.
func (w *CSVWriter) WriteResults(results []*domain.PipelineResult) error {
	for _, r := range results {
		if err := w.csv.Write(summaryRow(r)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}
