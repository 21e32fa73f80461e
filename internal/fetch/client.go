package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/event-site-finder/internal/db"
	"github.com/jonathan/event-site-finder/internal/types"
	"github.com/jonathan/event-site-finder/internal/urlutil"
)

// maxSnapshotText bounds the body text kept in a light-scrape snapshot.
const maxSnapshotText = 15000

// Client bundles the fetch options with an optional database-backed page
// cache. Without a database it fetches every page fresh.
type Client struct {
	opts     *Options
	db       *db.DB
	cacheTTL time.Duration
}

// NewClient creates a fetch client. database may be nil.
func NewClient(opts *Options, database *db.DB) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Client{
		opts:     opts,
		db:       database,
		cacheTTL: db.DefaultPageCacheTTL,
	}
}

// Exists runs the metadata-only existence check for a URL.
func (c *Client) Exists(ctx context.Context, urlStr string) (*Meta, error) {
	return Exists(ctx, urlStr, c.opts)
}

// skipErr returns a fetch error for a URL the failure cache says is dead, or
// nil when the URL may be fetched.
func (c *Client) skipErr(ctx context.Context, urlStr string) error {
	if c.db == nil {
		return nil
	}
	skip, reason, err := c.db.ShouldSkipURL(ctx, urlStr)
	if err != nil || !skip {
		return nil
	}
	return &Error{URL: urlStr, Message: "URL skipped: " + reason}
}

// Page retrieves the full HTML of a URL, consulting the page cache first
// when one is configured. URLs with a recorded permanent failure, or still in
// their retry backoff window, are not fetched again.
func (c *Client) Page(ctx context.Context, urlStr string) (*Result, error) {
	if err := c.skipErr(ctx, urlStr); err != nil {
		return nil, err
	}
	if c.db != nil {
		if cached, err := c.db.GetFreshPage(ctx, urlStr, c.cacheTTL); err == nil && cached != nil {
			return &Result{
				URL:        urlStr,
				HTML:       derefString(cached.HTML),
				StatusCode: derefInt(cached.HTTPStatus),
			}, nil
		}
	}

	result, err := Page(ctx, urlStr, c.opts)
	if err != nil {
		if c.db != nil {
			status := 0
			if result != nil {
				status = result.StatusCode
			}
			_ = c.db.RecordFailedFetch(ctx, urlStr, status, err.Error())
		}
		return result, err
	}

	if c.db != nil {
		_ = c.db.UpsertPage(ctx, &db.CachedPage{
			URL:         urlStr,
			HTML:        &result.HTML,
			HTTPStatus:  &result.StatusCode,
			FetchStatus: db.FetchStatusSuccess,
		})
	}
	return result, nil
}

// LightScrape performs a bounded feature-extraction fetch of a single page,
// returning a snapshot sufficient for scoring. Any fetch or parse failure is
// returned as an error; it never panics past this boundary.
func (c *Client) LightScrape(ctx context.Context, urlStr string) (*types.PageSnapshot, error) {
	if err := c.skipErr(ctx, urlStr); err != nil {
		return nil, err
	}

	scrapeOpts := *c.opts
	scrapeOpts.FetchTimeout = c.opts.ScrapeTimeout

	var result *Result
	var err error
	if c.db != nil {
		if cached, cerr := c.db.GetFreshPage(ctx, urlStr, c.cacheTTL); cerr == nil && cached != nil {
			result = &Result{
				URL:        urlStr,
				HTML:       derefString(cached.HTML),
				StatusCode: derefInt(cached.HTTPStatus),
			}
		}
	}
	if result == nil {
		result, err = Page(ctx, urlStr, &scrapeOpts)
		if err != nil {
			if c.db != nil {
				status := 0
				if result != nil {
					status = result.StatusCode
				}
				_ = c.db.RecordFailedFetch(ctx, urlStr, status, err.Error())
			}
			return nil, err
		}
		if c.db != nil {
			_ = c.db.UpsertPage(ctx, &db.CachedPage{
				URL:         urlStr,
				HTML:        &result.HTML,
				HTTPStatus:  &result.StatusCode,
				FetchStatus: db.FetchStatusSuccess,
			})
		}
	}

	page, err := Extract(result.HTML)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract page text", Cause: err}
	}

	// JS-heavy pages render almost nothing statically; re-render in a
	// headless browser when enabled.
	if c.opts.UseBrowser && ShouldUseBrowser(page.Text) {
		if html, berr := Render(ctx, urlStr, scrapeOpts.FetchTimeout); berr == nil {
			if rendered, rerr := Extract(html); rerr == nil {
				page = rendered
			}
		}
	}

	text := page.Text
	if len(text) > maxSnapshotText {
		text = text[:maxSnapshotText]
	}

	return &types.PageSnapshot{
		URL:           result.URL,
		Host:          urlutil.Host(result.URL),
		Title:         page.Title,
		Description:   page.Description,
		Text:          text,
		StatusCode:    result.StatusCode,
		ContentLength: len(result.HTML),
	}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// contentTypeHTML reports whether a declared content type is HTML.
func contentTypeHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// IsHTML reports whether the existence-check metadata declares an HTML page.
func (m *Meta) IsHTML() bool {
	return contentTypeHTML(m.ContentType)
}
