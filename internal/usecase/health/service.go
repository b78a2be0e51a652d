package health

import (
	"context"

	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the backend is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates a source index that does not exist.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	indexes  IndexChecker
	registry *source.Registry
}

// New creates a Service. indexes can be nil to skip per-source checks.
func New(db DBPinger, indexes IndexChecker, registry *source.Registry) *Service {
	return &Service{db: db, indexes: indexes, registry: registry}
}

// Check pings the backend and, when it answers, verifies every source index.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["database"] = CheckOK

	if s.indexes != nil && s.registry != nil {
		for _, src := range s.registry.All() {
			name := "index:" + string(src.Type())
			ok, err := s.indexes.IndexExists(ctx, src.Index())
			switch {
			case err != nil:
				checks[name] = CheckError
			case !ok:
				checks[name] = CheckMissing
			default:
				checks[name] = CheckOK
			}
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
