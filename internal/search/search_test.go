package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSearcher_DegradesWithoutCredentials(t *testing.T) {
	s, err := NewGoogleSearcher(context.Background(), "", "", nil)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "the glass garden London official site", DefaultLimit)
	assert.NoError(t, err, "missing credentials must degrade, not fail")
	assert.Empty(t, results)
}

func TestPagePlan(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  []pageSpan
	}{
		{"single partial page", 7, []pageSpan{{1, 7}}},
		{"exactly one page", 10, []pageSpan{{1, 10}}},
		{"default limit spans two pages", DefaultLimit, []pageSpan{{1, 10}, {11, 10}}},
		{"partial trailing page", 25, []pageSpan{{1, 10}, {11, 10}, {21, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagePlan(tt.limit))
		})
	}
}
