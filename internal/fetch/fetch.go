// Package fetch provides the HTTP fetching used by candidate verification and
// light scraping. All requests carry bounded timeouts; callers treat every
// failure as a rejection of that single candidate.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Timeouts for the two-step verification fetch and for light scrapes.
const (
	DefaultExistTimeout  = 8 * time.Second
	DefaultFetchTimeout  = 12 * time.Second
	DefaultScrapeTimeout = 15 * time.Second
)

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; SiteFinder/1.0)"

// Meta holds the response metadata from an existence check.
type Meta struct {
	URL         string
	ContentType string
	StatusCode  int
}

// Result holds the content of a full page fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	ExistTimeout  time.Duration
	FetchTimeout  time.Duration
	ScrapeTimeout time.Duration
	UserAgent     string
	Headers       map[string]string
	UseBrowser    bool // render JS-heavy pages in a headless browser when static HTML is too thin
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		ExistTimeout:  DefaultExistTimeout,
		FetchTimeout:  DefaultFetchTimeout,
		ScrapeTimeout: DefaultScrapeTimeout,
		UserAgent:     DefaultUserAgent,
	}
}

func validateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	return nil
}

func (o *Options) request(ctx context.Context, method, urlStr string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", o.UserAgent)
	for key, value := range o.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Exists issues the metadata-only existence check: a HEAD request with the
// shorter timeout. The caller inspects status and content type.
func Exists(ctx context.Context, urlStr string, opts *Options) (*Meta, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: opts.ExistTimeout}
	req, err := opts.request(ctx, http.MethodHead, urlStr)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "existence check failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return &Meta{
		URL:         urlStr,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// Page retrieves the full HTML content of a URL with the longer timeout.
// On a non-2xx status the partial Result is returned alongside the error.
func Page(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: opts.FetchTimeout}
	req, err := opts.request(ctx, http.MethodGet, urlStr)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}
