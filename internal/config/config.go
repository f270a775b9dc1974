// Package config defines process configuration and how it is loaded.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers .env, an optional YAML file and TRACKER_ env vars on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the front server listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// BackendURL is the base URL every API path is appended to.
	BackendURL string `koanf:"backend_url"`

	// RequestTimeoutMS bounds one backend attempt. Zero disables the timeout.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// MaxRetries is the number of attempts after the first one.
	MaxRetries int `koanf:"max_retries"`

	// SearchDebounceMS is the input quiet period before a search is sent.
	SearchDebounceMS int `koanf:"search_debounce_ms"`

	// SearchMinLength is the shortest query sent to the backend.
	SearchMinLength int `koanf:"search_min_length"`

	// LeaderboardLimit caps the leaderboard rows rendered on the home page.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// AssetsDir holds the browser client bundle (main.wasm, wasm_exec.js).
	AssetsDir string `koanf:"assets_dir"`

	// CrawlWorkers sets the concurrency of the crawl tool.
	CrawlWorkers int `koanf:"crawl_workers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		BackendURL:       "https://tracker-s9qq.onrender.com",
		RequestTimeoutMS: 30_000,
		MaxRetries:       2,
		SearchDebounceMS: 300,
		SearchMinLength:  2,
		LeaderboardLimit: 10,
		AssetsDir:        "web",
		CrawlWorkers:     4,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// SearchDebounce returns SearchDebounceMS as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}
