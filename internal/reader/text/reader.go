package text

import (
	"context"
	"unicode/utf8"

	"rpaetl/internal/port"
)

// MethodPlain marks input that was already text.
const MethodPlain = "plain"

// Reader passes text files through unchanged. Bytes that are not UTF-8 are
// still returned; the normalizer decides whether they are usable.
type Reader struct{}

// NewReader creates a plain-text reader.
func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Read(_ context.Context, data []byte) (*port.ReadResult, error) {
	encoding := port.EncodingUTF8
	if !utf8.Valid(data) {
		encoding = port.EncodingUnknown
	}
	return &port.ReadResult{
		Text:      string(data),
		PageCount: 1,
		Encoding:  encoding,
		SizeBytes: int64(len(data)),
		Method:    MethodPlain,
	}, nil
}
