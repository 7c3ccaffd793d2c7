package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrUnreadableDocument   = errors.New("unreadable document")
	ErrNotText              = errors.New("input is not text")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrInvalidPDF           = errors.New("invalid PDF file format")
	ErrInvalidContext       = errors.New("invalid business context")
	ErrExecutionNotFound    = errors.New("execution not found")
	ErrPublisherUnavailable = errors.New("no publisher configured for pipeline")
	ErrArchiveFailed        = errors.New("envelope archive to storage failed")
)
