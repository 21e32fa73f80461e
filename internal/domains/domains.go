// Package domains classifies URLs and page text against curated domain lists
// and vocabulary patterns. Every predicate here is a pure function of fixed
// data; no network access, safe to call from any goroutine.
package domains

import (
	"regexp"
	"strings"

	"github.com/jonathan/event-site-finder/internal/urlutil"
)

// officialPattern matches vocabulary strongly associated with organizer-owned
// pages: "official site", opening times, age-range phrasing, copyright marks.
var officialPattern = regexp.MustCompile(`(?i)official\s+(site|website|page)|opening\s+(times|hours)|box\s+office|ages?\s+\d|all\s+rights\s+reserved|©|&copy;`)

// aggregatorPattern matches reseller and listing-site vocabulary, including
// the brand names of the major secondary-market platforms.
var aggregatorPattern = regexp.MustCompile(`(?i)compare\s+(ticket\s+)?prices|resale\s+tickets?|secondary\s+ticketing|from\s+multiple\s+sellers|cheapest\s+tickets|viagogo|stubhub|ticketswap|seatpick|gigsberg|ticombo`)

// OfficialSignal reports whether text contains organizer-page vocabulary.
func OfficialSignal(text string) bool {
	return officialPattern.MatchString(text)
}

// AggregatorSignal reports whether text contains reseller or listing-site
// vocabulary.
func AggregatorSignal(text string) bool {
	return aggregatorPattern.MatchString(text)
}

// preferredVenues is the allow-list of well-known venue domains. Matching one
// earns a scoring bonus only; it is never a hard accept.
var preferredVenues = []string{
	"royalalberthall.com",
	"southbankcentre.co.uk",
	"barbican.org.uk",
	"nationaltheatre.org.uk",
	"roh.org.uk",
	"sadlerswells.com",
	"shakespearesglobe.com",
	"oldvictheatre.com",
	"youngvic.org",
	"roundhouse.org.uk",
	"kewgardens.org",
	"horniman.ac.uk",
	"somersethouse.org.uk",
	"wigmore-hall.org.uk",
}

// PreferredVenue reports whether the URL belongs to a curated well-known
// venue domain.
func PreferredVenue(rawURL string) bool {
	host := urlutil.Host(rawURL)
	if host == "" {
		return false
	}
	for _, v := range preferredVenues {
		if host == v || strings.HasSuffix(host, "."+v) {
			return true
		}
	}
	return false
}

// searchBlacklist holds substrings of domains that are never useful search
// results: aggregators, social platforms, encyclopedias, listings.
var searchBlacklist = []string{
	"wikipedia.org",
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"//x.com",
	"youtube.com",
	"linkedin.com",
	"tiktok.com",
	"tripadvisor.",
	"timeout.com",
	"visitlondon.com",
	"secretldn.com",
	"yelp.",
	"viagogo.",
	"stubhub.",
	"seatpick.com",
	"ticketswap.",
	"londontheatre.co.uk",
	"whatsonstage.com",
	"imdb.com",
	"rottentomatoes.com",
	"groupon.",
}

// BlacklistedResult reports whether a raw search-engine result should be
// discarded before it is even considered as a candidate.
func BlacklistedResult(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, b := range searchBlacklist {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// bookingDomains lists known third-party ticket-booking platforms. A trusted
// website or raw link on one of these is never the official site.
var bookingDomains = []string{
	"ticketmaster.",
	"seetickets.com",
	"eventbrite.",
	"dice.fm",
	"designmynight.com",
	"feverup.com",
	"todaytix.com",
	"axs.com",
	"skiddle.com",
	"fatsoma.com",
	"eventim.",
	"ticketsource.",
	"wegottickets.com",
	"billetto.",
	"universe.com",
	"tickettailor.com",
	"bookwhen.com",
	"ticketek.",
	"gigantic.com",
	"lwtheatres.co.uk/tickets",
}

// BookingDomain reports whether the URL belongs to a known ticket-booking
// platform.
func BookingDomain(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, b := range bookingDomains {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// cinemaHosts lists hostname substrings of the cinema chains used by the
// dispersed-film guard.
var cinemaHosts = []string{
	"odeon.co.uk",
	"vue.com",
	"myvue.com",
	"cineworld.co.uk",
	"picturehouses.com",
	"everymancinema.com",
	"curzon.com",
	"bfi.org.uk",
	"princecharlescinema.com",
	"thegardencinema.co.uk",
	"genesiscinema.co.uk",
	"riocinema.org.uk",
	"showcasecinemas.co.uk",
	"electriccinema.co.uk",
}

// CinemaHost reports whether a hostname belongs to a known cinema chain.
func CinemaHost(host string) bool {
	lower := strings.ToLower(host)
	for _, c := range cinemaHosts {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}

// DistinctCinemaHosts counts how many distinct cinema-chain hostnames appear
// in the given URLs. Two or more means a film is showing across venues and
// has no single official cinema page.
func DistinctCinemaHosts(rawURLs []string) int {
	seen := make(map[string]bool)
	for _, u := range rawURLs {
		host := urlutil.Host(u)
		if host == "" || !CinemaHost(host) {
			continue
		}
		seen[host] = true
	}
	return len(seen)
}
