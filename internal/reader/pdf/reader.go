package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"rpaetl/internal/domain"
	"rpaetl/internal/port"
)

// MethodEmbedded marks text taken from the PDF's own text layer.
const MethodEmbedded = "embedded"

// Reader extracts the embedded text layer of a PDF, page by page.
type Reader struct{}

// NewReader creates a PDF reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes data as a PDF. Pages are joined with a newline.
func (r *Reader) Read(ctx context.Context, data []byte) (res *port.ReadResult, err error) {
	// The decoder panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = fmt.Errorf("pdf.Read: %w: %v", domain.ErrUnreadableDocument, rec)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf.Read: %w: %v", domain.ErrUnreadableDocument, err)
	}

	pages := doc.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("pdf.Read: page %d: %w: %v", i, domain.ErrUnreadableDocument, err)
		}
		parts = append(parts, text)
	}

	text := strings.Join(parts, "\n")
	encoding := port.EncodingUTF8
	if !utf8.ValidString(text) {
		encoding = port.EncodingUnknown
	}
	return &port.ReadResult{
		Text:      text,
		PageCount: pages,
		Encoding:  encoding,
		SizeBytes: int64(len(data)),
		Method:    MethodEmbedded,
	}, nil
}
