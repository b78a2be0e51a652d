package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable signals that no selected source could be queried.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUnknownSource signals a path or selector naming no configured source.
	ErrUnknownSource = errors.New("unknown source")
)

// SourceError records the failure of a single source during a fan-out.
// It never reaches clients; the fan-out degrades the source to an empty result.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
