// Package resolver implements the cascading resolution pipeline that decides
// the official website for an event. Stages are tried cheapest first; the
// first stage that reaches a decision finalizes the result, which is cached
// per event for the lifetime of the process.
package resolver

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/event-site-finder/internal/domains"
	"github.com/jonathan/event-site-finder/internal/observability"
	"github.com/jonathan/event-site-finder/internal/scoring"
	"github.com/jonathan/event-site-finder/internal/search"
	"github.com/jonathan/event-site-finder/internal/types"
	"github.com/jonathan/event-site-finder/internal/urlutil"
)

const (
	// DefaultThreshold is the score a top light-scrape candidate must
	// strictly exceed to be accepted.
	DefaultThreshold = 750
	// DefaultSearchLimit caps candidates kept from one search call.
	DefaultSearchLimit = 20
	// minSearchCandidates is the floor under which the fallback query runs.
	minSearchCandidates = 3
	// minCinemaHosts distinct cinema chains among raw links marks a film
	// as a multi-venue listing with no single official page.
	minCinemaHosts = 2
)

const stage = "RESOLVE"

// Location is the geographic context for resolution. The city feeds the
// name-stripping and query heuristics.
type Location struct {
	City string `json:"city"`
}

func (l Location) city() string {
	if l.City == "" {
		return "London"
	}
	return l.City
}

// Verifier accepts or rejects one candidate URL for an event.
type Verifier interface {
	Verify(ctx context.Context, url string, ev types.Event) bool
}

// Config wires the resolver's collaborators. Zero-value numeric fields take
// the package defaults.
type Config struct {
	Searcher    search.Searcher
	Verifier    Verifier
	Scraper     scoring.Scraper
	Printer     *observability.Printer
	Threshold   float64
	SearchLimit int
}

// Resolver owns the per-event result cache and sequences the stages. Safe
// for concurrent use.
type Resolver struct {
	searcher    search.Searcher
	verifier    Verifier
	scraper     scoring.Scraper
	tracer      *observability.Printer
	threshold   float64
	searchLimit int

	mu    sync.Mutex
	cache map[string]types.ResolutionResult
}

// New creates a Resolver from the given configuration.
func New(cfg Config) *Resolver {
	r := &Resolver{
		searcher:    cfg.Searcher,
		verifier:    cfg.Verifier,
		scraper:     cfg.Scraper,
		tracer:      cfg.Printer,
		threshold:   cfg.Threshold,
		searchLimit: cfg.SearchLimit,
		cache:       make(map[string]types.ResolutionResult),
	}
	if r.threshold == 0 {
		r.threshold = DefaultThreshold
	}
	if r.searchLimit <= 0 {
		r.searchLimit = DefaultSearchLimit
	}
	return r
}

// Resolve returns the official-site resolution for an event. It never
// returns an error: the worst outcome is a result with no official URL.
// Results are cached by event ID; a second call for the same event returns
// the cached result without further network activity.
func (r *Resolver) Resolve(ctx context.Context, ev types.Event, loc Location) types.ResolutionResult {
	r.mu.Lock()
	if cached, ok := r.cache[ev.ID]; ok {
		r.mu.Unlock()
		r.tracer.Trace(stage, ev.ID, "cache hit")
		return cached
	}
	r.mu.Unlock()

	result := r.resolve(ctx, ev, loc)

	// Insert-if-absent: the first writer wins if two resolutions raced.
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cache[ev.ID]; ok {
		return existing
	}
	r.cache[ev.ID] = result
	return result
}

// stageFunc is one short-circuit exit point of the cascade. done reports
// whether the stage finalized the result.
type stageFunc func(ctx context.Context, ev types.Event, loc Location, run uuid.UUID) (types.ResolutionResult, bool)

func (r *Resolver) resolve(ctx context.Context, ev types.Event, loc Location) types.ResolutionResult {
	run := uuid.New()
	stages := []stageFunc{
		r.trustedWebsite,
		r.rawLinks,
		r.dispersedFilm,
		r.searchAndScore,
	}
	for _, s := range stages {
		if result, done := s(ctx, ev, loc, run); done {
			return result
		}
	}
	return types.ResolutionResult{RunID: run}
}

// trustedWebsite accepts the event's own website field when it normalizes to
// a non-booking URL. Highest-confidence path; no verification is performed.
func (r *Resolver) trustedWebsite(_ context.Context, ev types.Event, _ Location, run uuid.UUID) (types.ResolutionResult, bool) {
	if ev.Website == "" {
		return types.ResolutionResult{}, false
	}
	norm, ok := urlutil.Normalize(ev.Website)
	if !ok {
		r.tracer.Trace(stage, ev.ID, "website field %q not normalizable, ignoring", ev.Website)
		return types.ResolutionResult{}, false
	}
	if domains.BookingDomain(norm) {
		r.tracer.Trace(stage, ev.ID, "website field %s is a booking domain, ignoring", norm)
		return types.ResolutionResult{}, false
	}
	origin := urlutil.RootOrigin(norm)
	r.tracer.Trace(stage, ev.ID, "trusted website accepted: %s", origin)
	return types.ResolutionResult{OfficialURL: origin, RunID: run}, true
}

// rawLinks verifies the event's own links sequentially, in input order; the
// first candidate that passes verification wins and is root-collapsed.
func (r *Resolver) rawLinks(ctx context.Context, ev types.Event, _ Location, run uuid.UUID) (types.ResolutionResult, bool) {
	for _, candidate := range urlutil.Dedupe(ev.RawLinkURLs()) {
		if domains.BookingDomain(candidate) {
			r.tracer.Trace(stage, ev.ID, "skipping booking-domain raw link %s", candidate)
			continue
		}
		if r.verifier.Verify(ctx, candidate, ev) {
			origin := urlutil.RootOrigin(candidate)
			r.tracer.Trace(stage, ev.ID, "raw link verified: %s", origin)
			return types.ResolutionResult{OfficialURL: origin, RunID: run}, true
		}
	}
	return types.ResolutionResult{}, false
}

// dispersedFilm treats a film whose raw links span two or more cinema chains
// as a multi-venue listing: picking any single cinema as "the" official site
// would be arbitrary, so the event resolves to none found.
func (r *Resolver) dispersedFilm(_ context.Context, ev types.Event, _ Location, run uuid.UUID) (types.ResolutionResult, bool) {
	if !ev.HasTag("film") {
		return types.ResolutionResult{}, false
	}
	if n := domains.DistinctCinemaHosts(ev.RawLinkURLs()); n >= minCinemaHosts {
		r.tracer.Trace(stage, ev.ID, "film dispersed across %d cinema chains, no single official site", n)
		return types.ResolutionResult{RunID: run}, true
	}
	return types.ResolutionResult{}, false
}

// searchAndScore is the terminal stage: external search, a fallback query
// when the primary is under-productive, then concurrent light scraping and
// the strict score-threshold decision.
func (r *Resolver) searchAndScore(ctx context.Context, ev types.Event, loc Location, run uuid.UUID) (types.ResolutionResult, bool) {
	query := search.BuildQuery(ev, loc.city())
	raw, _ := r.searcher.Search(ctx, query, r.searchLimit)
	candidates := search.FilterCandidates(raw, r.searchLimit)

	if len(candidates) < minSearchCandidates {
		r.tracer.Trace(stage, ev.ID, "primary query yielded %d candidates, trying fallback", len(candidates))
		fallback := search.BuildFallbackQuery(ev, loc.city())
		more, _ := r.searcher.Search(ctx, fallback, r.searchLimit)
		candidates = search.FilterCandidates(append(candidates, more...), r.searchLimit)
	}

	var nonBooking []string
	for _, c := range candidates {
		if !domains.BookingDomain(c) {
			nonBooking = append(nonBooking, c)
		}
	}
	if len(nonBooking) == 0 {
		r.tracer.Trace(stage, ev.ID, "no search candidates survived filtering")
		return types.ResolutionResult{RunID: run}, true
	}

	scored := scoring.ScoreCandidates(ctx, r.scraper, nonBooking, ev, r.tracer)
	if len(scored) == 0 {
		r.tracer.Trace(stage, ev.ID, "no candidates survived scraping and scoring")
		return types.ResolutionResult{RunID: run}, true
	}

	top := scored[0]
	if top.Score > r.threshold {
		r.tracer.Trace(stage, ev.ID, "accepted %s at score %.0f", top.Snapshot.URL, top.Score)
		return types.ResolutionResult{OfficialURL: top.Snapshot.URL, Candidates: scored, RunID: run}, true
	}

	r.tracer.Trace(stage, ev.ID, "top candidate %s scored %.0f, below threshold %.0f", top.Snapshot.URL, top.Score, r.threshold)
	return types.ResolutionResult{Candidates: scored, RunID: run}, true
}
