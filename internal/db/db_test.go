package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsPermanentHTTPStatus(t *testing.T) {
	tests := []struct {
		status    int
		permanent bool
	}{
		{404, true},
		{410, true},
		{451, true},
		{200, false},
		{403, false},
		{429, false},
		{500, false},
		{503, false},
		{0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.permanent, IsPermanentHTTPStatus(tt.status), "status %d", tt.status)
	}
}

func TestCachedPage_ShouldSkip(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)
	msg := "Not found"

	t.Run("nil page is never skipped", func(t *testing.T) {
		var page *CachedPage
		skip, _ := page.ShouldSkip(now)
		assert.False(t, skip)
	})

	t.Run("successful page is not skipped", func(t *testing.T) {
		page := &CachedPage{FetchStatus: FetchStatusSuccess}
		skip, _ := page.ShouldSkip(now)
		assert.False(t, skip)
	})

	t.Run("permanent failure skipped with its error message", func(t *testing.T) {
		page := &CachedPage{
			FetchStatus:        FetchStatusFailed,
			IsPermanentFailure: true,
			ErrorMessage:       &msg,
		}
		skip, reason := page.ShouldSkip(now)
		assert.True(t, skip)
		assert.Equal(t, "Not found", reason)
	})

	t.Run("permanent failure without message uses default reason", func(t *testing.T) {
		page := &CachedPage{FetchStatus: FetchStatusFailed, IsPermanentFailure: true}
		skip, reason := page.ShouldSkip(now)
		assert.True(t, skip)
		assert.Equal(t, "permanent failure", reason)
	})

	t.Run("transient failure skipped inside backoff window", func(t *testing.T) {
		page := &CachedPage{FetchStatus: FetchStatusFailed, RetryAfter: &future}
		skip, reason := page.ShouldSkip(now)
		assert.True(t, skip)
		assert.Equal(t, "retry backoff", reason)
	})

	t.Run("transient failure retried after backoff expires", func(t *testing.T) {
		page := &CachedPage{FetchStatus: FetchStatusFailed, RetryAfter: &past}
		skip, _ := page.ShouldSkip(now)
		assert.False(t, skip)
	})
}
