package reader

import (
	"bytes"
	"context"

	"rpaetl/internal/port"
	"rpaetl/internal/reader/pdf"
	"rpaetl/internal/reader/text"
)

// PDFMagic is the signature every PDF file starts with.
var PDFMagic = []byte("%PDF")

// Auto routes PDF bytes to the PDF reader and everything else to the text reader.
type Auto struct {
	pdf  port.DocumentReader
	text port.DocumentReader
}

// NewAuto creates the default document reader.
func NewAuto() *Auto {
	return &Auto{pdf: pdf.NewReader(), text: text.NewReader()}
}

func (a *Auto) Read(ctx context.Context, data []byte) (*port.ReadResult, error) {
	if IsPDF(data) {
		return a.pdf.Read(ctx, data)
	}
	return a.text.Read(ctx, data)
}

// IsPDF reports whether data carries the PDF signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, PDFMagic)
}
