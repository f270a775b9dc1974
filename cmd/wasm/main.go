//go:build js && wasm

// Command wasm is the browser client: it takes over navigation after the
// server-rendered first paint.
package main

import (
	"context"
	"os"

	"github.com/okian/wordtracker/internal/adapters/backend"
	"github.com/okian/wordtracker/internal/adapters/dom"
	"github.com/okian/wordtracker/internal/app"
	"github.com/okian/wordtracker/internal/config"
	"github.com/okian/wordtracker/internal/render"
	"github.com/okian/wordtracker/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get().Named("client")
	ctx := context.Background()

	cfg := config.New()

	page, err := dom.NewPage(render.DefaultSiteName)
	if err != nil {
		log.Error(ctx, "page elements missing; staying on server navigation", logger.Error(err))
		return
	}

	baseURL := page.Meta(render.BackendURLMeta)
	if baseURL == "" {
		baseURL = cfg.BackendURL
	}
	client := backend.New(baseURL,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithRetries(cfg.MaxRetries),
		backend.WithLogger(log.Named("backend")),
	)

	session := app.NewSession(client, page, page, page.Panel(),
		app.WithDebounce(cfg.SearchDebounce()),
		app.WithMinLength(cfg.SearchMinLength),
		app.WithLeaderboardLimit(cfg.LeaderboardLimit),
		app.WithLogger(log),
	)
	if err := session.Prepare(); err != nil {
		log.Error(ctx, "session setup failed", logger.Error(err))
		return
	}

	dispose := dom.Wire(ctx, page, session, log)
	defer dispose()
	defer session.Stop()

	go func() {
		if err := session.Start(ctx, page.Location()); err != nil {
			log.Error(ctx, "session start failed", logger.Error(err))
		}
	}()

	log.Info(ctx, "client started", logger.String("backend", baseURL))
	select {}
}
