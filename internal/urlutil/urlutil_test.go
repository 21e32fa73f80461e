package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "https://example.com/show", "https://example.com/show", true},
		{"strips query", "https://example.com/show?utm_source=x&ref=y", "https://example.com/show", true},
		{"strips fragment", "https://example.com/show#tickets", "https://example.com/show", true},
		{"lowercases host", "https://Example.COM/Show", "https://example.com/Show", true},
		{"adds scheme", "example.com/show", "https://example.com/show", true},
		{"trailing slash trimmed", "https://example.com/show/", "https://example.com/show", true},
		{"root keeps slash", "https://example.com", "https://example.com/", true},
		{"rejects mailto", "mailto:box@example.com", "", false},
		{"rejects empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "example.com", Host("https://www.Example.com/a/b"))
	assert.Equal(t, "example.co.uk", Host("example.co.uk"))
	assert.Equal(t, "", Host("://bad"))
}

func TestRootOrigin(t *testing.T) {
	assert.Equal(t, "https://example.com/", RootOrigin("https://example.com/deep/path?q=1"))
	assert.Equal(t, "http://example.com/", RootOrigin("http://example.com"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "peter pan goes wrong", CleanName("Peter Pan Goes Wrong!"))
	assert.Equal(t, "abba voyage", CleanName("  ABBA: Voyage  "))
}

func TestNameHost(t *testing.T) {
	assert.Equal(t, "thelionking", NameHost("The Lion King"))
}

func TestTokens(t *testing.T) {
	got := Tokens("An Evening of Magic", 3)
	assert.Equal(t, []string{"evening", "magic"}, got)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{
		"https://example.com/a?utm_source=x",
		"https://example.com/a",
		"not a url at all ://",
		"https://other.com/b",
	})
	assert.Equal(t, []string{"https://example.com/a", "https://other.com/b"}, got)
}
