package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/wordtracker/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		// Point .env lookups at an empty temp dir so a developer's .env never leaks in.
		_ = os.Setenv("TRACKER_ENV_FILE", filepath.Join(t.TempDir(), ".env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 2)
				convey.So(cfg.RequestTimeoutMS, convey.ShouldEqual, 30_000)
				convey.So(cfg.SearchDebounceMS, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TRACKER_ADDR", ":8080")
			_ = os.Setenv("TRACKER_BACKEND_URL", "http://localhost:5000")
			_ = os.Setenv("TRACKER_MAX_RETRIES", "0")
			_ = os.Setenv("TRACKER_SEARCH_DEBOUNCE_MS", "0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://localhost:5000")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 0)
				convey.So(cfg.SearchDebounceMS, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempFile(t, "tracker.yaml", `
addr: ":9090"
backend_url: "http://backend.internal"
request_timeout_ms: 5000
leaderboard_limit: 25
`)
			_ = os.Setenv("TRACKER_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values are used and the rest keep defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://backend.internal")
				convey.So(cfg.RequestTimeoutMS, convey.ShouldEqual, 5000)
				convey.So(cfg.LeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			tmpFile := createTempFile(t, "tracker.yaml", `
addr: ":9090"
max_retries: 5
`)
			_ = os.Setenv("TRACKER_CONFIG", tmpFile)
			_ = os.Setenv("TRACKER_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When a .env file is present", func() {
			envFile := createTempFile(t, ".env", "TRACKER_ADDR=:7070\nTRACKER_LOG_LEVEL=debug\n")
			_ = os.Setenv("TRACKER_ENV_FILE", envFile)
			_ = os.Setenv("TRACKER_LOG_LEVEL", "warn")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset vars without overriding the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When loading config with invalid YAML", func() {
			tmpFile := createTempFile(t, "bad.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("TRACKER_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("TRACKER_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numbers", func() {
			_ = os.Setenv("TRACKER_MAX_RETRIES", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("TRACKER_ENV_FILE", filepath.Join(t.TempDir(), ".env"))
		defer clearConfigEnvVars()

		cases := []struct {
			name    string
			key     string
			value   string
			message string
		}{
			{"empty addr", "TRACKER_ADDR", "", "addr must not be empty"},
			{"relative backend", "TRACKER_BACKEND_URL", "/api", "backend_url"},
			{"ftp backend", "TRACKER_BACKEND_URL", "ftp://example.com", "backend_url"},
			{"negative retries", "TRACKER_MAX_RETRIES", "-1", "max_retries"},
			{"negative timeout", "TRACKER_REQUEST_TIMEOUT_MS", "-5", "request_timeout_ms"},
			{"negative debounce", "TRACKER_SEARCH_DEBOUNCE_MS", "-5", "search_debounce_ms"},
			{"zero min length", "TRACKER_SEARCH_MIN_LENGTH", "0", "search_min_length"},
			{"zero limit", "TRACKER_LEADERBOARD_LIMIT", "0", "leaderboard_limit"},
			{"zero workers", "TRACKER_CRAWL_WORKERS", "0", "crawl_workers"},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer func() { _ = os.Unsetenv(tc.key) }()

				cfg, err := config.Load(ctx)

				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, tc.message)
			})
		}
	})
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	convey.Convey("Given a missing .env file", t, func() {
		err := config.LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"))

		convey.Convey("Then it is not an error", func() {
			convey.So(err, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "TRACKER_") {
			_ = os.Unsetenv(key)
		}
	}
}

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
