package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/event-site-finder/internal/types"
)

func TestBuildQuery_Basics(t *testing.T) {
	ev := types.Event{
		Name:         "The Glass Garden!",
		Descriptions: []string{"An immersive light installation in a Victorian greenhouse."},
	}

	q := BuildQuery(ev, "")
	assert.Contains(t, q, "the glass garden")
	assert.Contains(t, q, "London")
	assert.Contains(t, q, "official")
	assert.Contains(t, q, "website")
	assert.Contains(t, q, "tickets")
	assert.Contains(t, q, "-viagogo")
	assert.Contains(t, q, "-stubhub")
	assert.Contains(t, q, "-ticketmaster")
}

func TestBuildQuery_DescriptionPrefixBounded(t *testing.T) {
	long := "a very long description that keeps going and going well past the prefix budget for queries"
	ev := types.Event{Name: "Show", Descriptions: []string{long}}

	q := BuildQuery(ev, "London")
	assert.NotContains(t, q, "prefix budget")
	assert.Contains(t, q, "a very long description")
}

func TestBuildQuery_FilmHintsAndExclusions(t *testing.T) {
	ev := types.Event{Name: "Dune", Tags: []string{"film"}}
	q := BuildQuery(ev, "London")
	assert.Contains(t, q, "film movie screening cinema")
	assert.Contains(t, q, "-theatre")
	assert.Contains(t, q, "-musical")
	assert.NotContains(t, q, "-film")
}

func TestBuildQuery_TheatreHintsAndExclusions(t *testing.T) {
	ev := types.Event{Name: "Hamlet", Tags: []string{"theatre"}}
	q := BuildQuery(ev, "London")
	assert.Contains(t, q, "theatre musical stage")
	assert.Contains(t, q, "-film")
	assert.Contains(t, q, "-movie")
	assert.Contains(t, q, "-cinema")
}

func TestBuildFallbackQuery(t *testing.T) {
	ev := types.Event{Name: "The Glass Garden!", Tags: []string{"film"}}
	q := BuildFallbackQuery(ev, "")
	assert.Equal(t, "the glass garden London official site", q)
}

func TestFilterCandidates(t *testing.T) {
	raw := []string{
		"https://en.wikipedia.org/wiki/Show",       // blacklisted
		"https://glassgarden.co.uk/visit?utm_x=1",  // kept, normalized
		"https://glassgarden.co.uk/visit",          // duplicate after normalization
		"https://www.timeout.com/london/visit",     // blacklisted
		"https://othervenue.org/whats-on",          // kept
	}
	got := FilterCandidates(raw, 0)
	assert.Equal(t, []string{
		"https://glassgarden.co.uk/visit",
		"https://othervenue.org/whats-on",
	}, got)
}

func TestFilterCandidates_Truncates(t *testing.T) {
	raw := []string{
		"https://a.example.com/",
		"https://b.example.com/",
		"https://c.example.com/",
	}
	got := FilterCandidates(raw, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "https://a.example.com/", got[0])
}
