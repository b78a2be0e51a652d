package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeSourceNotFound     ErrorCode = "source_not_found"
	ErrorCodeDocumentNotFound   ErrorCode = "document_not_found"
	ErrorCodeBackendUnavailable ErrorCode = "backend_unavailable"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Handler mounts the API routes on r. Static routes win over {source}.
func Handler(s *Server, r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchAll)
		r.Get("/all", s.Summary)
		r.Get("/alerts/count", s.PendingAlerts)
		r.Get("/{source}", s.BrowseCollection)
		r.Get("/{source}/{id}", s.GetDocument)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}
