// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request (search page or detail page).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent to the repository.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429/503 (0 disables retries).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RemoteConfig holds settings for the document repository client.
type RemoteConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the repository root (e.g. "https://rigeo.sgb.gov.br").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageSize is the number of results requested per search page (rpp).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPages bounds the paginated requests per query (at most 2).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MaxCandidates caps the detail pages returned per query.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// FallbackPool is how many candidates without a code match may be kept
	// (0 selects the default, a negative value keeps none).
	FallbackPool int `json:"fallback_pool" yaml:"fallback_pool"`

	// Keywords are appended to every free-text query.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ResolveConfig holds settings for the aggregator.
type ResolveConfig struct {
	// Workers bounds concurrent outbound fetches across one Resolve call.
	Workers int `json:"workers" yaml:"workers"`

	// Deadline bounds one Resolve call; pending codes fall back when it elapses.
	Deadline time.Duration `json:"deadline" yaml:"deadline"`
}

// CatalogConfig locates the externally built catalog.
type CatalogConfig struct {
	// Path is a .json, .yaml/.yml or .db/.sqlite catalog file.
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig selects the logger flavor and level.
type LogConfig struct {
	// Env is "prod" for JSON output, "local" or "dev" for console output.
	Env string `json:"env" yaml:"env"`

	// Level overrides the default level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}

// Config groups every component configuration.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Remote  RemoteConfig  `json:"remote" yaml:"remote"`
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// Defaults for the repository client and aggregator.
const (
	DefaultBaseURL         = "https://rigeo.sgb.gov.br"
	DefaultUserAgent       = "Mozilla/5.0 (compatible; sheetfinder/0.1)"
	DefaultTimeout         = 15 * time.Second
	DefaultMaxRetries      = 2
	DefaultPageSize        = 100
	DefaultMaxPages        = 2
	DefaultMaxCandidates   = 6
	DefaultFallbackPool    = 3
	DefaultWorkers         = 6
	DefaultDeadline        = 25 * time.Second
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// DefaultKeywords narrow free-text queries to geological material.
var DefaultKeywords = []string{"geologia"}

// ApplyDefaults fills zero fields with default values.
func (c *Config) ApplyDefaults() {
	c.Remote.ApplyDefaults()
	c.Resolve.ApplyDefaults()
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Log.Env == "" {
		c.Log.Env = "local"
	}
}

// ApplyDefaults fills zero fields with default values.
func (c *RemoteConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = DefaultMaxCandidates
	}
	switch {
	case c.FallbackPool == 0:
		c.FallbackPool = DefaultFallbackPool
	case c.FallbackPool < 0:
		c.FallbackPool = 0
	}
	if c.Keywords == nil {
		c.Keywords = append([]string(nil), DefaultKeywords...)
	}
}

// ApplyDefaults fills zero fields with default values.
func (c *ResolveConfig) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Deadline <= 0 {
		c.Deadline = DefaultDeadline
	}
}

// Validate checks the configuration for correctness.
func (c Config) Validate() error {
	if c.Remote.MaxPages > 2 {
		return fmt.Errorf("remote.max_pages must be at most 2, got %d", c.Remote.MaxPages)
	}
	if c.Remote.PageSize > 100 {
		return fmt.Errorf("remote.page_size must be at most 100, got %d", c.Remote.PageSize)
	}
	if c.Remote.FallbackPool > c.Remote.MaxCandidates {
		return fmt.Errorf("remote.fallback_pool (%d) exceeds remote.max_candidates (%d)",
			c.Remote.FallbackPool, c.Remote.MaxCandidates)
	}
	if c.Resolve.Workers > 16 {
		return fmt.Errorf("resolve.workers must be at most 16, got %d", c.Resolve.Workers)
	}
	switch c.Log.Env {
	case "", "local", "dev", "prod":
	default:
		return fmt.Errorf("log.env must be local, dev or prod, got %q", c.Log.Env)
	}
	return nil
}
