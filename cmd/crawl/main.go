// Command crawl checks a tracker backend for payloads the views cannot
// render faithfully. It exits non-zero when any check fails.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/wordtracker/internal/adapters/backend"
	"github.com/okian/wordtracker/internal/config"
	"github.com/okian/wordtracker/internal/crawl"
	"github.com/okian/wordtracker/pkg/logger"
)

const defaultCrawlTimeout = 10 * time.Minute

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args, crawls and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 2
	}

	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)
	var (
		baseURL    = fs.String("url", cfg.BackendURL, "Base URL of the tracker backend")
		workers    = fs.Int("workers", cfg.CrawlWorkers, "Number of concurrent fetches")
		maxMatches = fs.Int("max-matches", 0, "Cap on matches checked (0 = all)")
		timeout    = fs.Duration("timeout", defaultCrawlTimeout, "Overall crawl timeout")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 2
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Get().Named("crawl")

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := backend.New(*baseURL,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithRetries(cfg.MaxRetries),
		backend.WithLogger(log.Named("backend")),
	)
	c, err := crawl.New(client,
		crawl.WithWorkers(*workers),
		crawl.WithMaxMatches(*maxMatches),
		crawl.WithLogger(log),
	)
	if err != nil {
		log.Error(ctx, "failed to create crawler", logger.Error(err))
		return 2
	}

	report, err := c.Run(ctx)
	if err != nil {
		log.Error(ctx, "crawl failed", logger.String("backend", *baseURL), logger.Error(err))
		return 1
	}

	for _, v := range report.Violations {
		log.Warn(ctx, "violation",
			logger.String("check", v.Check),
			logger.String("subject", v.Subject),
			logger.String("detail", v.Detail),
		)
	}
	for _, e := range report.Errors {
		log.Warn(ctx, "fetch error", logger.Error(e))
	}

	if !report.OK() {
		return 1
	}
	return 0
}
