package port

import "context"

// Encodings reported by a DocumentReader.
const (
	EncodingUTF8    = "utf-8"
	EncodingUnknown = "unknown"
)

// ReadResult is the text layer of a document plus the facts the READ stage records.
type ReadResult struct {
	Text      string
	PageCount int
	Encoding  string
	SizeBytes int64
	Method    string
}

// DocumentReader turns raw document bytes into text. A document that cannot be
// decoded yields an error wrapping domain.ErrUnreadableDocument.
type DocumentReader interface {
	Read(ctx context.Context, data []byte) (*ReadResult, error)
}
