package chi

import (
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
	healthuc "github.com/Shourya125/dashboard/internal/usecase/health"
)

// FederatedResponse is the body of GET /api/search.
type FederatedResponse struct {
	Results []result.Record     `json:"results"`
	Counts  map[source.Type]int `json:"counts"`
}

// CollectionResponse is the body of GET /api/{source}.
type CollectionResponse struct {
	Documents []result.Record `json:"documents"`
	TotalHits int             `json:"totalHits"`
	Offset    int             `json:"offset"`
	Limit     int             `json:"limit"`
	HasMore   bool            `json:"hasMore"`
}

// AlertCountResponse is the body of GET /api/alerts/count.
type AlertCountResponse struct {
	Count int `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func federatedToResponse(f result.Federated) FederatedResponse {
	records := f.Records
	if records == nil {
		records = []result.Record{}
	}
	return FederatedResponse{Results: records, Counts: f.Counts}
}

func listingToResponse(l result.Listing) CollectionResponse {
	records := l.Records
	if records == nil {
		records = []result.Record{}
	}
	return CollectionResponse{
		Documents: records,
		TotalHits: l.TotalHits,
		Offset:    l.Offset,
		Limit:     l.Limit,
		HasMore:   l.HasMore(),
	}
}

// summaryToResponse flattens the summary into one key per source plus total.
func summaryToResponse(s result.Summary) map[string]any {
	resp := make(map[string]any, len(s.BySource)+1)
	for t, records := range s.BySource {
		if records == nil {
			records = []result.Record{}
		}
		resp[string(t)] = records
	}
	resp["total"] = s.Total
	return resp
}
