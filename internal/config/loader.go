package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "TRACKER_"
	envConfigFile  = "TRACKER_CONFIG"
	envDotEnvFile  = "TRACKER_ENV_FILE"
	defaultEnvFile = ".env"
)

// Load builds a Config by layering defaults, .env, an optional file and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (TRACKER_ENV_FILE, default ".env"); never overrides the real environment
//  3. YAML file if TRACKER_CONFIG is set
//  4. env (prefix TRACKER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	envFile := os.Getenv(envDotEnvFile)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, envFile, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TRACKER_MAX_RETRIES -> max_retries; underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: backend_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.BackendURL)
	}
	switch {
	case c.RequestTimeoutMS < 0:
		return fmt.Errorf("%w: request_timeout_ms must not be negative", ErrInvalidConfig)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	case c.SearchDebounceMS < 0:
		return fmt.Errorf("%w: search_debounce_ms must not be negative", ErrInvalidConfig)
	case c.SearchMinLength < 1:
		return fmt.Errorf("%w: search_min_length must be at least 1", ErrInvalidConfig)
	case c.LeaderboardLimit < 1:
		return fmt.Errorf("%w: leaderboard_limit must be at least 1", ErrInvalidConfig)
	case c.CrawlWorkers < 1:
		return fmt.Errorf("%w: crawl_workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}
