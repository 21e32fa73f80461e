// Package scoring turns light-scrape snapshots into ranked officialness
// scores for the candidate URLs that survive search filtering.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/event-site-finder/internal/domains"
	"github.com/jonathan/event-site-finder/internal/types"
	"github.com/jonathan/event-site-finder/internal/urlutil"
)

// Scoring weights. The resolver only accepts a top candidate scoring
// strictly above its threshold, so the weights are tuned such that a page
// needs several independent signals to clear it.
const (
	nameInTitleScore      = 400
	nameInTextScore       = 200
	hostMatchScore        = 250
	officialSignalScore   = 150
	descriptionTokenScore = 100
	aggregatorPenalty     = 300

	// PreferredVenueBonus is added when the URL matches the curated venue
	// allow-list; a bonus only, never a hard accept.
	PreferredVenueBonus = 400
)

const minDescTokenLen = 4

// Score computes the officialness score of one snapshot for an event.
// Deterministic; higher means more likely to be the organizer's own page.
// Returns NaN when the snapshot has no usable text, so the caller can
// discard candidates with undefined confidence.
func Score(snap types.PageSnapshot, ev types.Event) float64 {
	if snap.Title == "" && snap.Description == "" && strings.TrimSpace(snap.Text) == "" {
		return math.NaN()
	}

	title := strings.ToLower(snap.Title)
	body := strings.ToLower(snap.Description + "\n" + snap.Text)
	all := title + "\n" + body
	name := urlutil.CleanName(ev.Name)

	score := 0.0

	if name != "" && strings.Contains(title, name) {
		score += nameInTitleScore
	} else if name != "" && strings.Contains(body, name) {
		score += nameInTextScore
	}

	nameHost := urlutil.NameHost(ev.Name)
	host := strings.ReplaceAll(snap.Host, "-", "")
	if nameHost != "" && host != "" && (strings.Contains(host, nameHost) || strings.Contains(nameHost, host)) {
		score += hostMatchScore
	}

	if domains.OfficialSignal(all) {
		score += officialSignalScore
	}
	if domains.AggregatorSignal(all) {
		score -= aggregatorPenalty
	}

	if desc := ev.FirstDescription(); desc != "" {
		for _, tok := range urlutil.Tokens(desc, minDescTokenLen) {
			if strings.Contains(all, tok) {
				score += descriptionTokenScore
				break
			}
		}
	}

	return score
}
