package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/event-site-finder/internal/domains"
	"github.com/jonathan/event-site-finder/internal/observability"
	"github.com/jonathan/event-site-finder/internal/urlutil"
)

// DefaultLimit is the default cap on candidate URLs returned per query.
const DefaultLimit = 20

// cseMaxResults is the most results a single Custom Search call can return.
const cseMaxResults = 10

const stage = "SEARCH"

// Searcher returns an ordered list of result URLs for a query. An empty
// slice with a nil error is the normal degraded outcome when credentials are
// absent or the call fails; implementations log the cause instead.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// GoogleSearcher adapts the Google Custom Search API.
type GoogleSearcher struct {
	svc    *customsearch.Service
	cx     string
	tracer *observability.Printer
}

// NewGoogleSearcher creates the production Searcher. When apiKey or cx is
// empty the searcher is still usable and degrades to empty results.
func NewGoogleSearcher(ctx context.Context, apiKey, cx string, tracer *observability.Printer) (*GoogleSearcher, error) {
	s := &GoogleSearcher{cx: cx, tracer: tracer}
	if apiKey == "" || cx == "" {
		return s, nil
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	s.svc = svc
	return s, nil
}

// pageSpan is one Custom Search list call: a 1-based start offset and the
// number of results to request.
type pageSpan struct {
	start int64
	num   int64
}

// pagePlan splits a result limit into consecutive list calls of at most
// cseMaxResults each, since one call cannot return more.
func pagePlan(limit int) []pageSpan {
	var spans []pageSpan
	start := int64(1)
	remaining := int64(limit)
	for remaining > 0 {
		num := remaining
		if num > cseMaxResults {
			num = cseMaxResults
		}
		spans = append(spans, pageSpan{start: start, num: num})
		start += num
		remaining -= num
	}
	return spans
}

// Search runs one query against the Custom Search API, paginating until limit
// results are collected or the results run out, and preserving the external
// ranking order. Missing credentials and transport failures both degrade to
// whatever was collected so far, usually an empty list.
func (s *GoogleSearcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if s.svc == nil || s.cx == "" {
		s.tracer.Trace(stage, "-", "search credentials absent, returning no results")
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var links []string
	for _, span := range pagePlan(limit) {
		resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(span.num).Start(span.start).Context(ctx).Do()
		if err != nil {
			s.tracer.Trace(stage, "-", "search failed for %q at result %d: %v", query, span.start, err)
			break
		}
		for _, item := range resp.Items {
			if item.Link != "" {
				links = append(links, item.Link)
			}
		}
		if int64(len(resp.Items)) < span.num {
			break
		}
	}
	return links, nil
}

// FilterCandidates passes raw search results through the blacklist,
// normalizes and deduplicates them, and truncates to limit, preserving the
// external order.
func FilterCandidates(raw []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var kept []string
	for _, u := range raw {
		if !domains.BlacklistedResult(u) {
			kept = append(kept, u)
		}
	}
	kept = urlutil.Dedupe(kept)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
