package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/wordtracker/internal/app/router"
	"github.com/okian/wordtracker/internal/app/search"
	"github.com/okian/wordtracker/pkg/logger"
)

// Backend is everything a session fetches.
type Backend interface {
	API
	search.Searcher
}

// ErrNotStarted is returned when the session is used before it is built.
var ErrNotStarted = errors.New("session not started")

// Session owns one router and one search controller for the lifetime of a
// page. It is created at application start and torn down at stop.
type Session struct {
	mu sync.RWMutex

	backend  Backend
	viewport router.Viewport
	history  router.History
	panel    search.Panel

	// Configuration
	debounce    time.Duration
	minLength   int
	limit       int
	clock       search.Clock
	scrollSeeds map[string]float64

	// State
	router    *router.Router
	search    *search.Controller
	built     bool
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// NewSession creates a session; Prepare or Start builds its components.
func NewSession(b Backend, viewport router.Viewport, history router.History, panel search.Panel, opts ...Option) *Session {
	s := &Session{
		backend:   b,
		viewport:  viewport,
		history:   history,
		panel:     panel,
		debounce:  search.DefaultDebounce,
		minLength: search.DefaultMinLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare builds the router and search controller without rendering, so
// event listeners can be attached before the first load. It is idempotent.
func (s *Session) Prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked()
}

func (s *Session) buildLocked() error {
	if s.built {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("session")
	}

	r, err := router.New(NewPages(s.backend, s.limit), s.viewport, s.history,
		router.WithLogger(s.logger.Named("router")),
		router.WithScrollMemory(s.scrollSeeds),
	)
	if err != nil {
		return fmt.Errorf("build session: %w", err)
	}

	searchOpts := []search.Option{
		search.WithDebounce(s.debounce),
		search.WithMinLength(s.minLength),
		search.WithLogger(s.logger.Named("search")),
	}
	if s.clock != nil {
		searchOpts = append(searchOpts, search.WithClock(s.clock))
	}
	sc, err := search.New(s.backend, s.panel, r, searchOpts...)
	if err != nil {
		return fmt.Errorf("build session: %w", err)
	}

	s.router, s.search = r, sc
	s.built = true
	return nil
}

// Start renders initialURL, building the session first if Prepare was not
// called. A failed initial load leaves the session running on the
// unavailable view.
func (s *Session) Start(ctx context.Context, initialURL string) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if err := s.buildLocked(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start session: %w", err)
	}
	r := s.router
	s.started = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info(ctx, "session started",
		logger.String("url", initialURL),
		logger.Duration("debounce", s.debounce),
		logger.Int("min_length", s.minLength),
	)

	if err := r.Start(ctx, initialURL); err != nil && !errors.Is(err, router.ErrLoad) {
		return err
	}
	return nil
}

// Stop cancels in-flight work and releases listeners.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.built {
		return
	}
	s.search.Close()
	s.router.Close()
	s.built = false
	if s.started {
		s.started = false
		s.logger.Info(context.Background(), "session stopped",
			logger.Duration("uptime", time.Since(s.startedAt)))
	}
}

// Router returns the session's router, or nil before Prepare or Start.
func (s *Session) Router() *router.Router {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

// Search returns the session's search controller, or nil before Prepare
// or Start.
func (s *Session) Search() *search.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// Navigate forwards to the router.
func (s *Session) Navigate(ctx context.Context, url string) error {
	r := s.Router()
	if r == nil {
		return ErrNotStarted
	}
	return r.Navigate(ctx, url)
}

// GetStats returns a diagnostic snapshot of the session.
func (s *Session) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
	}
	if s.started {
		st := s.router.State()
		stats["uptime"] = time.Since(s.startedAt).String()
		stats["status"] = st.Status.String()
		stats["path"] = st.Path
		stats["generation"] = st.Generation
		stats["search_visible"] = s.search.Visible()
	}
	return stats
}
