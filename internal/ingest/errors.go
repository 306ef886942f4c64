// file: internal/ingest/errors.go
// version: 1.0.0
// guid: 5a6b7c8d-9e0f-1a2b-3c4d-5e6f7a8b9c0d

package ingest

import "fmt"

// InvalidFormatError indicates the submitted file is not an EPUB. It is
// raised before extraction, on the filename, and aborts the ingestion.
type InvalidFormatError struct {
	Path string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s is not an EPUB file", e.Path)
}

// PersistenceError indicates a database or filesystem write failed. It
// aborts the ingestion; everything written so far is rolled back by the
// caller-visible absence of the book row.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }
