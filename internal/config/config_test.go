package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `{
		"search_api_key": "key-123",
		"search_cx": "cx-456",
		"city": "London",
		"threshold": 750,
		"search_limit": 20,
		"verbose": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.SearchAPIKey)
	assert.Equal(t, "cx-456", cfg.SearchCX)
	assert.Equal(t, 750.0, cfg.Threshold)
	assert.Equal(t, 20, cfg.SearchLimit)
	assert.True(t, cfg.Verbose)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFromEnv_FillsMissingOnly(t *testing.T) {
	t.Setenv(EnvSearchAPIKey, "env-key")
	t.Setenv(EnvSearchCX, "env-cx")
	t.Setenv(EnvVerbose, "true")

	cfg := &Config{SearchAPIKey: "file-key"}
	cfg.FromEnv()

	assert.Equal(t, "file-key", cfg.SearchAPIKey, "file value must win over environment")
	assert.Equal(t, "env-cx", cfg.SearchCX)
	assert.True(t, cfg.Verbose)
}

func TestValidate(t *testing.T) {
	valid := &Config{Threshold: 750, SearchLimit: 20}
	assert.NoError(t, valid.Validate())

	invalid := &Config{SearchLimit: 500}
	assert.Error(t, invalid.Validate())
}
