// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds the runtime configuration. All fields are optional; missing
// values use defaults or are supplied via CLI flags and environment.
type Config struct {
	// Credentials
	SearchAPIKey string `json:"search_api_key,omitempty"` // Google Custom Search API key
	SearchCX     string `json:"search_cx,omitempty"`      // Custom Search engine ID
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL URL for the page cache

	// Behavior
	City        string  `json:"city,omitempty"`         // location context, defaults to London
	Threshold   float64 `json:"threshold,omitempty" validate:"gte=0"`
	SearchLimit int     `json:"search_limit,omitempty" validate:"gte=0,lte=100"`
	UseBrowser  bool    `json:"use_browser,omitempty"` // headless-browser fallback for SPA pages
	Verbose     bool    `json:"verbose,omitempty"`
}

// Environment variable names read by FromEnv.
const (
	EnvSearchAPIKey = "GOOGLE_SEARCH_API_KEY"
	EnvSearchCX     = "GOOGLE_SEARCH_CX"
	EnvDatabaseURL  = "DATABASE_URL"
	EnvVerbose      = "SITEFINDER_VERBOSE"
)

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills empty credential fields from the environment. Values already
// set (e.g. from a config file) win over the environment.
func (c *Config) FromEnv() {
	if c.SearchAPIKey == "" {
		c.SearchAPIKey = os.Getenv(EnvSearchAPIKey)
	}
	if c.SearchCX == "" {
		c.SearchCX = os.Getenv(EnvSearchCX)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
	if !c.Verbose {
		if v, err := strconv.ParseBool(os.Getenv(EnvVerbose)); err == nil {
			c.Verbose = v
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
