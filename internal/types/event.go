// Package types defines the shared data structures for official-site resolution.
package types

import "strings"

// Link is one outbound URL attached to an event or to a schedule entry.
type Link struct {
	URL  string `json:"url"`
	Kind string `json:"kind,omitempty"` // e.g. "booking", "info"; informational only
}

// Schedule is a single schedule entry for an event. Entries may carry their
// own links in addition to the event-level ones.
type Schedule struct {
	Links []Link `json:"links,omitempty"`
}

// Event is the immutable source record the pipeline resolves a site for.
// The pipeline never mutates an Event.
type Event struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Website      string     `json:"website,omitempty"` // trusted website field, if the source provided one
	Links        []Link     `json:"links,omitempty"`
	Schedules    []Schedule `json:"schedules,omitempty"`
	Descriptions []string   `json:"descriptions,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// FirstDescription returns the first non-empty free-text description, or "".
func (e Event) FirstDescription() string {
	for _, d := range e.Descriptions {
		if strings.TrimSpace(d) != "" {
			return d
		}
	}
	return ""
}

// HasTag reports whether the event carries the given category tag
// (case-insensitive).
func (e Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// RawLinkURLs returns every URL attached to the event itself followed by
// every URL attached to its schedule entries. Order is preserved: raw-link
// verification is order-sensitive and the first verified link wins.
func (e Event) RawLinkURLs() []string {
	var urls []string
	for _, l := range e.Links {
		if l.URL != "" {
			urls = append(urls, l.URL)
		}
	}
	for _, s := range e.Schedules {
		for _, l := range s.Links {
			if l.URL != "" {
				urls = append(urls, l.URL)
			}
		}
	}
	return urls
}
