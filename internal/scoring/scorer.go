package scoring

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/event-site-finder/internal/domains"
	"github.com/jonathan/event-site-finder/internal/observability"
	"github.com/jonathan/event-site-finder/internal/types"
)

const stage = "SCORE"

// Scraper is the light-scrape collaborator: a best-effort single-page fetch
// returning enough extracted features for scoring.
type Scraper interface {
	LightScrape(ctx context.Context, url string) (*types.PageSnapshot, error)
}

// ScoreCandidates scrapes all candidate URLs concurrently, scores the
// snapshots that survive, and returns them sorted by descending score with
// discovery order preserved on ties. A failed individual scrape never aborts
// the batch; booking-domain snapshots, duplicates and non-finite scores are
// dropped.
func ScoreCandidates(ctx context.Context, scraper Scraper, urls []string, ev types.Event, tracer *observability.Printer) []types.ScoredCandidate {
	snapshots := make([]*types.PageSnapshot, len(urls))

	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			snap, err := scraper.LightScrape(ctx, u)
			if err != nil {
				tracer.Trace(stage, ev.ID, "scrape failed for %s: %v", u, err)
				return nil
			}
			snapshots[i] = snap
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var scored []types.ScoredCandidate
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		if domains.BookingDomain(snap.URL) {
			tracer.Trace(stage, ev.ID, "dropping booking domain %s", snap.URL)
			continue
		}
		if seen[snap.URL] {
			continue
		}
		seen[snap.URL] = true

		score := Score(*snap, ev)
		if domains.PreferredVenue(snap.URL) {
			score += PreferredVenueBonus
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			tracer.Trace(stage, ev.ID, "dropping %s: score undefined", snap.URL)
			continue
		}

		tracer.Trace(stage, ev.ID, "scored %s at %.0f", snap.URL, score)
		scored = append(scored, types.ScoredCandidate{Snapshot: *snap, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
