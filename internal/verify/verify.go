// Package verify decides whether one candidate URL is the official site for
// an event. Verification never returns an error: every failure, transport or
// heuristic, resolves to a rejection with a traced reason.
package verify

import (
	"context"
	"net/http"
	"strings"

	"github.com/jonathan/event-site-finder/internal/domains"
	"github.com/jonathan/event-site-finder/internal/fetch"
	"github.com/jonathan/event-site-finder/internal/observability"
	"github.com/jonathan/event-site-finder/internal/types"
	"github.com/jonathan/event-site-finder/internal/urlutil"
)

const (
	// minContentBytes is the floor below which a page is treated as a
	// parked domain or redirect stub rather than a real content page.
	minContentBytes = 5000
	// textPrefixBytes bounds how much of the page is decoded for the
	// content heuristics; full-page parsing is deliberately avoided.
	textPrefixBytes = 15000

	minNameTokenLen = 3
	minDescTokenLen = 4

	// requiredSignals is the number of content signals that must hold out
	// of {description match, official vocabulary, no aggregator
	// vocabulary}. At 3 of 3 this is a conjunction; kept as a count so the
	// signal set can grow without restructuring.
	requiredSignals = 3
)

const stage = "VERIFY"

// Client is the fetch surface verification needs.
type Client interface {
	Exists(ctx context.Context, url string) (*fetch.Meta, error)
	Page(ctx context.Context, url string) (*fetch.Result, error)
}

// Verifier checks candidate URLs against the source event.
type Verifier struct {
	client Client
	tracer *observability.Printer
	city   string
}

// New creates a Verifier. city is stripped from event names before token
// matching; empty defaults to "London".
func New(client Client, tracer *observability.Printer, city string) *Verifier {
	if city == "" {
		city = "London"
	}
	return &Verifier{client: client, tracer: tracer, city: city}
}

// Verify reports whether the candidate URL passes the two-step fetch and the
// content heuristics for the event. It never returns an error.
func (v *Verifier) Verify(ctx context.Context, rawURL string, ev types.Event) bool {
	meta, err := v.client.Exists(ctx, rawURL)
	if err != nil {
		v.tracer.Trace(stage, ev.ID, "rejected %s: existence check failed: %v", rawURL, err)
		return false
	}
	if meta.StatusCode < 200 || meta.StatusCode >= 300 {
		v.tracer.Trace(stage, ev.ID, "rejected %s: existence status %d", rawURL, meta.StatusCode)
		return false
	}
	if !meta.IsHTML() {
		v.tracer.Trace(stage, ev.ID, "rejected %s: content type %q is not HTML", rawURL, meta.ContentType)
		return false
	}

	page, err := v.client.Page(ctx, rawURL)
	if err != nil {
		v.tracer.Trace(stage, ev.ID, "rejected %s: fetch failed: %v", rawURL, err)
		return false
	}
	if page.StatusCode != http.StatusOK {
		v.tracer.Trace(stage, ev.ID, "rejected %s: fetch status %d", rawURL, page.StatusCode)
		return false
	}
	if len(page.HTML) < minContentBytes {
		v.tracer.Trace(stage, ev.ID, "rejected %s: content too small (%d bytes)", rawURL, len(page.HTML))
		return false
	}

	prefix := page.HTML
	if len(prefix) > textPrefixBytes {
		prefix = prefix[:textPrefixBytes]
	}
	text := strings.ToLower(prefix)

	if !v.nameMatches(text, ev) {
		v.tracer.Trace(stage, ev.ID, "rejected %s: event name not found in page", rawURL)
		return false
	}

	signals := 0
	if descriptionMatches(text, ev) {
		signals++
	}
	if domains.OfficialSignal(text) {
		signals++
	}
	if !domains.AggregatorSignal(text) {
		signals++
	}
	if signals < requiredSignals {
		v.tracer.Trace(stage, ev.ID, "rejected %s: %d of %d content signals", rawURL, signals, requiredSignals)
		return false
	}

	// Hard domain-mismatch veto: a film page talking about musicals or
	// theatre is a different production with the same name.
	if ev.HasTag("film") && (strings.Contains(text, "musical") || strings.Contains(text, "theatre")) {
		v.tracer.Trace(stage, ev.ID, "rejected %s: film event but page mentions theatre vocabulary", rawURL)
		return false
	}

	// Hostname plausibility is advisory only: many official sites live on
	// unrelated brand domains.
	if !v.hostPlausible(rawURL, ev) {
		v.tracer.Trace(stage, ev.ID, "note: hostname of %s does not resemble event name", rawURL)
	}

	v.tracer.Trace(stage, ev.ID, "accepted %s", rawURL)
	return true
}

// strippedName returns the event name without the city word, cleaned to
// lowercase alphanumerics and spaces.
func (v *Verifier) strippedName(ev types.Event) string {
	city := strings.ToLower(v.city)
	var kept []string
	for _, tok := range strings.Fields(urlutil.CleanName(ev.Name)) {
		if tok != city {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// nameMatches requires the cleaned event name, or at least one of its tokens
// of minNameTokenLen or more, to appear in the page text.
func (v *Verifier) nameMatches(text string, ev types.Event) bool {
	name := v.strippedName(ev)
	if name == "" {
		return true
	}
	if strings.Contains(text, name) {
		return true
	}
	for _, tok := range urlutil.Tokens(name, minNameTokenLen) {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// descriptionMatches requires at least one token of minDescTokenLen or more
// from the first description to appear in the page text.
func descriptionMatches(text string, ev types.Event) bool {
	desc := ev.FirstDescription()
	if desc == "" {
		return false
	}
	for _, tok := range urlutil.Tokens(desc, minDescTokenLen) {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// hostPlausible reports whether the candidate hostname contains the
// alphanumeric-reduced event name or vice versa.
func (v *Verifier) hostPlausible(rawURL string, ev types.Event) bool {
	nameHost := urlutil.NameHost(v.strippedName(ev))
	if nameHost == "" {
		return true
	}
	host := strings.ReplaceAll(urlutil.Host(rawURL), "-", "")
	return strings.Contains(host, nameHost) || strings.Contains(nameHost, host)
}
