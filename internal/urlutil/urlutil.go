// Package urlutil provides URL canonicalization and the text normalization
// helpers the resolution pipeline shares.
package urlutil

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a raw candidate URL to its scheme+host+path form,
// lowercasing the host and dropping query noise and fragments. The second
// return is false when the input cannot be treated as an absolute http(s)
// URL; such candidates are silently dropped by callers.
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(parsed.Host)
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return parsed.Scheme + "://" + host + path, true
}

// Host returns the lowercased hostname of a URL without a leading "www.",
// or "" when the URL cannot be parsed.
func Host(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}

// RootOrigin collapses a URL to scheme://host/. Accepted trusted-website and
// raw-link candidates are root-collapsed before being returned.
func RootOrigin(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + strings.ToLower(parsed.Host) + "/"
}

// CleanName lowercases a display name and strips everything but letters,
// digits and spaces, collapsing runs of whitespace.
func CleanName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NameHost reduces an activity name to the lowercase alphanumeric form used
// for hostname plausibility checks ("The Lion King" -> "thelionking").
func NameHost(name string) string {
	return strings.ReplaceAll(CleanName(name), " ", "")
}

// Tokens splits text into cleaned alphanumeric tokens of at least minLen
// characters.
func Tokens(text string, minLen int) []string {
	var out []string
	for _, tok := range strings.Fields(CleanName(text)) {
		if len(tok) >= minLen {
			out = append(out, tok)
		}
	}
	return out
}

// Dedupe normalizes a list of raw URLs and drops duplicates and anything
// that does not normalize, preserving first-seen order.
func Dedupe(raw []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range raw {
		norm, ok := Normalize(u)
		if !ok || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}
