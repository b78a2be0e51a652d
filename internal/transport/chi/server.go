package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shourya125/dashboard/internal/domain"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/source"
	"github.com/Shourya125/dashboard/internal/logger"
	collectionuc "github.com/Shourya125/dashboard/internal/usecase/collection"
	documentuc "github.com/Shourya125/dashboard/internal/usecase/document"
	healthuc "github.com/Shourya125/dashboard/internal/usecase/health"
	searchuc "github.com/Shourya125/dashboard/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the dashboard API.
type Server struct {
	search        *searchuc.Service
	collections   *collectionuc.Service
	documents     *documentuc.Service
	health        *healthuc.Service
	registry      *source.Registry
	limits        request.Limits
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	collections *collectionuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	registry *source.Registry,
	limits request.Limits,
) *Server {
	s := &Server{
		search:      search,
		collections: collections,
		documents:   documents,
		health:      health,
		registry:    registry,
		limits:      limits,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownSource, http.StatusNotFound, ErrorCodeSourceNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusInternalServerError, ErrorCodeBackendUnavailable),
	}
	return s
}

// SearchAll handles GET /api/search.
func (s *Server) SearchAll(w http.ResponseWriter, r *http.Request) {
	params, bindFallbacks := federatedParams(r)
	req, fallbacks := request.NewFederated(params, s.registry, s.limits)
	reportFallbacks(r.Context(), bindFallbacks, fallbacks)

	res, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, federatedToResponse(res))
}

// Summary handles GET /api/all.
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.search.Summary(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryToResponse(sum))
}

// BrowseCollection handles GET /api/{source}.
func (s *Server) BrowseCollection(w http.ResponseWriter, r *http.Request) {
	src, err := s.collections.Source(source.Type(chi.URLParam(r, "source")))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	params, bindFallbacks := collectionParams(r, src)
	req, fallbacks := request.NewCollection(src, params, s.limits)
	reportFallbacks(r.Context(), bindFallbacks, fallbacks)

	listing, err := s.collections.Browse(r.Context(), src, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(listing))
}

// GetDocument handles GET /api/{source}/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	src, err := s.collections.Source(source.Type(chi.URLParam(r, "source")))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rec, err := s.documents.Get(r.Context(), src, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// PendingAlerts handles GET /api/alerts/count.
func (s *Server) PendingAlerts(w http.ResponseWriter, r *http.Request) {
	src, err := s.collections.Source(source.Gazette)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	n, err := s.collections.Pending(r.Context(), src)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AlertCountResponse{Count: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownSource,
		domain.ErrDocumentNotFound,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
