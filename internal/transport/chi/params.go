package chi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/source"
	"github.com/Shourya125/dashboard/internal/logger"
	"github.com/Shourya125/dashboard/internal/metrics"
)

// queryBinder binds optional form-style query parameters. A value that
// cannot be bound is dropped and recorded as a fallback instead of failing
// the request.
type queryBinder struct {
	values    url.Values
	fallbacks []request.Fallback
}

func newQueryBinder(r *http.Request) *queryBinder {
	return &queryBinder{values: r.URL.Query()}
}

func (b *queryBinder) string(name string) string {
	var v string
	if err := runtime.BindQueryParameter("form", true, false, name, b.values, &v); err != nil {
		b.drop(name, "expected a single value")
		return ""
	}
	return v
}

func (b *queryBinder) int(name string) *int {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, b.values, &v); err != nil {
		b.drop(name, "expected an integer")
		return nil
	}
	return v
}

func (b *queryBinder) drop(name, reason string) {
	b.fallbacks = append(b.fallbacks, request.Fallback{
		Name:   name,
		Raw:    b.values.Get(name),
		Reason: reason,
	})
}

func federatedParams(r *http.Request) (request.FederatedParams, []request.Fallback) {
	b := newQueryBinder(r)
	p := request.FederatedParams{
		Query:     b.string("query"),
		Site:      b.string("site"),
		SortBy:    b.string("sortBy"),
		StartDate: b.string("startDate"),
		EndDate:   b.string("endDate"),
		Limit:     b.int("limit"),
	}
	return p, b.fallbacks
}

func collectionParams(r *http.Request, src source.Source) (request.CollectionParams, []request.Fallback) {
	b := newQueryBinder(r)
	p := request.CollectionParams{
		Query:     b.string("query"),
		StartDate: b.string("startDate"),
		EndDate:   b.string("endDate"),
		SortBy:    b.string("sortBy"),
		Offset:    b.int("offset"),
		Limit:     b.int("limit"),
		Tags:      b.string("tags"),
	}
	if names := src.Subfilters(); len(names) > 0 {
		p.Subfilters = make(map[string]string, len(names))
		for _, name := range names {
			p.Subfilters[name] = b.string(name)
		}
	}
	return p, b.fallbacks
}

// reportFallbacks logs and counts every parameter replaced by its default.
func reportFallbacks(ctx context.Context, fallbacks ...[]request.Fallback) {
	log := logger.FromContext(ctx)
	for _, list := range fallbacks {
		for _, fb := range list {
			log.Warn("request parameter fallback",
				zap.String("param", fb.Name),
				zap.String("raw", fb.Raw),
				zap.String("reason", fb.Reason),
			)
			metrics.ParamFallbacksTotal.WithLabelValues(fb.Name).Inc()
		}
	}
}
