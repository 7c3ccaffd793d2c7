// Command extract runs the extraction pipeline on one local document and
// prints the result as JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"rpaetl/internal/domain"
	"rpaetl/internal/export"
	"rpaetl/internal/pipeline"
	"rpaetl/internal/reader"
)

// Output formats.
const (
	formatEnvelope  = "envelope"
	formatERP       = "erp"
	formatAnalytics = "analytics"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	tenant := fs.String("tenant", "", "tenant id recorded in the result")
	traceID := fs.String("trace", "", "trace id (generated when empty)")
	format := fs.String("format", formatEnvelope, "output: envelope, erp or analytics")
	xlsxPath := fs.String("xlsx", "", "also write an XLSX report to this path")
	csvPath := fs.String("csv", "", "also write a CSV summary to this path")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: extract [flags] file.pdf|file.txt")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	bc := domain.BusinessContext{TenantID: *tenant, TraceID: *traceID}
	if bc.TenantID != "" {
		if err := bc.Validate(); err != nil {
			log.Printf("extract: %v", err)
			return 2
		}
		bc.Complete()
	}

	orchestrator := pipeline.NewOrchestrator(reader.NewAuto())
	result := orchestrator.Process(context.Background(), pipeline.Input{Path: fs.Arg(0)}, bc)

	if *xlsxPath != "" {
		if err := writeXLSX(*xlsxPath, result); err != nil {
			log.Printf("extract: %v", err)
			return 1
		}
	}
	if *csvPath != "" {
		if err := writeCSV(*csvPath, result); err != nil {
			log.Printf("extract: %v", err)
			return 1
		}
	}

	var out any
	switch *format {
	case formatEnvelope:
		out = pipeline.BuildEnvelope(result)
	case formatERP:
		if result.Payload == nil {
			log.Printf("extract: no payload to convert (status %s)", result.Status)
			return 1
		}
		out = pipeline.ToERPPayload(result.Payload)
	case formatAnalytics:
		out = pipeline.ToAnalyticsEvent(result)
	default:
		log.Printf("extract: unknown format %q", *format)
		return 2
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		log.Printf("extract: encode: %v", err)
		return 1
	}

	if result.Status == domain.PipelineError {
		return 1
	}
	return 0
}

func writeXLSX(path string, result *domain.PipelineResult) error {
	data, err := export.XLSX([]*domain.PipelineResult{result})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, result *domain.PipelineResult) error {
	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewCSVWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteResults([]*domain.PipelineResult{result}); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
