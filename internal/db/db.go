// Package db provides PostgreSQL-backed caching of fetched pages. The cache
// stores page fetches only; resolution results are never persisted.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPageCacheTTL is how long a cached page is considered fresh.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
}

// CachedPage is one fetched page stored in the cache table.
type CachedPage struct {
	ID                 uuid.UUID  `json:"id"`
	URL                string     `json:"url"`
	HTML               *string    `json:"html,omitempty"`
	Title              *string    `json:"title,omitempty"`
	Text               *string    `json:"text,omitempty"`
	HTTPStatus         *int       `json:"http_status,omitempty"`
	FetchStatus        string     `json:"fetch_status"`
	ErrorMessage       *string    `json:"error_message,omitempty"`
	IsPermanentFailure bool       `json:"is_permanent_failure"`
	RetryCount         int        `json:"retry_count"`
	RetryAfter         *time.Time `json:"retry_after,omitempty"`
	FetchedAt          time.Time  `json:"fetched_at"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
}

// Fetch status values for CachedPage.
const (
	FetchStatusSuccess = "success"
	FetchStatusFailed  = "failed"
)

// IsPermanentHTTPStatus returns true for status codes that indicate permanent failure
func IsPermanentHTTPStatus(status int) bool {
	switch status {
	case 404, 410, 451: // Not Found, Gone, Unavailable for Legal Reasons
		return true
	default:
		return false
	}
}

// ShouldSkip reports whether the page should not be fetched again and why:
// permanently failed pages are skipped forever, transient failures until
// their retry backoff expires.
func (p *CachedPage) ShouldSkip(now time.Time) (bool, string) {
	if p == nil {
		return false, ""
	}
	if p.IsPermanentFailure {
		reason := "permanent failure"
		if p.ErrorMessage != nil {
			reason = *p.ErrorMessage
		}
		return true, reason
	}
	if p.RetryAfter != nil && now.Before(*p.RetryAfter) {
		return true, "retry backoff"
	}
	return false, ""
}

const cachedPageColumns = `id, url, html, title, text, http_status, fetch_status,
	   error_message, is_permanent_failure, retry_count, retry_after, fetched_at, expires_at`

func scanCachedPage(row pgx.Row) (*CachedPage, error) {
	var page CachedPage
	err := row.Scan(&page.ID, &page.URL, &page.HTML, &page.Title, &page.Text,
		&page.HTTPStatus, &page.FetchStatus, &page.ErrorMessage,
		&page.IsPermanentFailure, &page.RetryCount, &page.RetryAfter,
		&page.FetchedAt, &page.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read page cache: %w", err)
	}
	return &page, nil
}

// GetPage returns the cached entry for a URL regardless of its fetch status,
// or nil when the URL has never been fetched.
func (db *DB) GetPage(ctx context.Context, url string) (*CachedPage, error) {
	return scanCachedPage(db.pool.QueryRow(ctx,
		`SELECT `+cachedPageColumns+` FROM cached_pages WHERE url = $1`, url))
}

// GetFreshPage returns the cached page for a URL if one exists, succeeded and
// was fetched within ttl, or nil when there is no fresh entry.
func (db *DB) GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*CachedPage, error) {
	return scanCachedPage(db.pool.QueryRow(ctx,
		`SELECT `+cachedPageColumns+`
		 FROM cached_pages
		 WHERE url = $1 AND fetch_status = $2 AND fetched_at > $3
		   AND (expires_at IS NULL OR expires_at > NOW())`,
		url, FetchStatusSuccess, time.Now().Add(-ttl)))
}

// ShouldSkipURL checks whether a URL is known to be dead: permanently failed,
// or in its retry backoff window after a transient failure.
func (db *DB) ShouldSkipURL(ctx context.Context, url string) (bool, string, error) {
	page, err := db.GetPage(ctx, url)
	if err != nil {
		return false, "", err
	}
	skip, reason := page.ShouldSkip(time.Now())
	return skip, reason, nil
}

// UpsertPage inserts or refreshes the cached entry for a URL after a
// successful fetch, clearing any earlier failure state. The page ID is
// assigned when missing.
func (db *DB) UpsertPage(ctx context.Context, page *CachedPage) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO cached_pages (id, url, html, title, text, http_status, fetch_status, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)
		 ON CONFLICT (url) DO UPDATE SET
		   html = $3, title = $4, text = $5, http_status = $6,
		   fetch_status = $7, error_message = NULL, is_permanent_failure = FALSE,
		   retry_count = 0, retry_after = NULL, fetched_at = NOW(), expires_at = $8`,
		page.ID, page.URL, page.HTML, page.Title, page.Text,
		page.HTTPStatus, page.FetchStatus, page.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cached page: %w", err)
	}
	return nil
}

// RecordFailedFetch records a failed fetch with exponential backoff so that
// repeated resolutions do not hammer a dead page. Permanent failures (404,
// 410, 451) are never retried; transient ones back off
// 1 min -> 5 min -> 25 min, capped at 2 hours.
func (db *DB) RecordFailedFetch(ctx context.Context, url string, statusCode int, message string) error {
	isPermanent := IsPermanentHTTPStatus(statusCode)
	_, err := db.pool.Exec(ctx,
		`INSERT INTO cached_pages (id, url, http_status, fetch_status, error_message, is_permanent_failure, retry_count, retry_after, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 1,
		         CASE WHEN $6 THEN NULL ELSE NOW() + INTERVAL '1 minute' END,
		         NOW())
		 ON CONFLICT (url) DO UPDATE SET
		   http_status = $3,
		   fetch_status = $4,
		   error_message = $5,
		   is_permanent_failure = $6 OR cached_pages.is_permanent_failure,
		   retry_count = cached_pages.retry_count + 1,
		   retry_after = CASE
		       WHEN $6 OR cached_pages.is_permanent_failure THEN NULL
		       ELSE NOW() + LEAST(
		           INTERVAL '1 minute' * POWER(5, LEAST(cached_pages.retry_count, 3)),
		           INTERVAL '2 hours'
		       )
		   END,
		   fetched_at = NOW()`,
		uuid.New(), url, statusCode, FetchStatusFailed, message, isPermanent,
	)
	if err != nil {
		return fmt.Errorf("failed to record failed fetch: %w", err)
	}
	return nil
}
