package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/wordtracker/internal/adapters/backend"
	"github.com/okian/wordtracker/internal/adapters/http/site"
	"github.com/okian/wordtracker/internal/config"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

// HTTP server timeout constants. The write timeout covers a backend call
// with all its retries.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	writeTimeoutSlack         = 10 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr since the logger format is part of the config
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	srv, err := newHTTPServer(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build server", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)

	if err := serve(ctx, srv, log); err != nil {
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		os.Exit(1)
	}
}

// newHTTPServer builds the backend client and the front server from cfg.
func newHTTPServer(cfg *config.Config, log logger.Logger) (*http.Server, error) {
	client := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithRetries(cfg.MaxRetries),
		backend.WithLogger(log.Named("backend")),
	)

	front, err := site.New(client,
		site.WithLogger(log.Named("site")),
		site.WithAssetsDir(cfg.AssetsDir),
		site.WithClientScript(site.HasClientBundle(cfg.AssetsDir)),
		site.WithBackendURL(cfg.BackendURL),
		site.WithLeaderboardLimit(cfg.LeaderboardLimit),
		site.WithSearchMinLength(cfg.SearchMinLength),
	)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           front.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, nil
}

// writeTimeout bounds a response by the worst case backend call.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.RequestTimeoutMS == 0 {
		return 0
	}
	return time.Duration(cfg.MaxRetries+1)*cfg.RequestTimeout() + writeTimeoutSlack
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
