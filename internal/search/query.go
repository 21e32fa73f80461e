// Package search builds search queries for an event and adapts the external
// web-search API into the candidate-URL sequence the resolver consumes.
package search

import (
	"strings"

	"github.com/jonathan/event-site-finder/internal/types"
	"github.com/jonathan/event-site-finder/internal/urlutil"
)

// maxDescriptionPrefix bounds how much of the first description is appended
// to the primary query.
const maxDescriptionPrefix = 50

// excludedAggregators are always excluded from the primary query by name.
var excludedAggregators = []string{"viagogo", "stubhub", "ticketmaster", "seatpick"}

// typeHints maps a category tag to the query terms that disambiguate it.
// Checked in order; the first matching tag wins.
var typeHints = []struct {
	tag  string
	hint string
}{
	{"film", "film movie screening cinema"},
	{"theatre", "theatre musical stage"},
	{"musical", "theatre musical stage"},
	{"concert", "concert live performance"},
	{"music", "concert live performance"},
}

// negative vocabulary per category, used to keep film results out of theatre
// queries and vice versa.
var (
	filmExclusions    = []string{"theatre", "musical", "stage"}
	theatreExclusions = []string{"film", "movie", "cinema"}
)

// BuildQuery constructs the primary search query for an event: cleaned name,
// city, official-site terms, category hints, a short description prefix and
// negative-term exclusions.
func BuildQuery(ev types.Event, city string) string {
	if city == "" {
		city = "London"
	}

	parts := []string{urlutil.CleanName(ev.Name), city, "official", "website", "tickets"}

	for _, h := range typeHints {
		if ev.HasTag(h.tag) {
			parts = append(parts, h.hint)
			break
		}
	}

	if desc := ev.FirstDescription(); desc != "" {
		prefix := urlutil.CleanName(desc)
		if len(prefix) > maxDescriptionPrefix {
			prefix = strings.TrimSpace(prefix[:maxDescriptionPrefix])
		}
		parts = append(parts, prefix)
	}

	for _, name := range excludedAggregators {
		parts = append(parts, "-"+name)
	}
	switch {
	case ev.HasTag("film"):
		for _, term := range filmExclusions {
			parts = append(parts, "-"+term)
		}
	case ev.HasTag("theatre") || ev.HasTag("musical"):
		for _, term := range theatreExclusions {
			parts = append(parts, "-"+term)
		}
	}

	return strings.Join(parts, " ")
}

// BuildFallbackQuery constructs the simplified secondary query used when the
// primary query is under-productive: just the name plus the city and
// official-site terms, no hints or exclusions.
func BuildFallbackQuery(ev types.Event, city string) string {
	if city == "" {
		city = "London"
	}
	return urlutil.CleanName(ev.Name) + " " + city + " official site"
}
