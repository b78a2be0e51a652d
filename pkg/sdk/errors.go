package dashboard

import "github.com/Shourya125/dashboard/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrBackendUnavailable = domain.ErrBackendUnavailable
	ErrDocumentNotFound   = domain.ErrDocumentNotFound
	ErrUnknownSource      = domain.ErrUnknownSource
)
