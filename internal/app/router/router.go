// Package router drives the content region of the page: it resolves a URL
// to a route, shows a placeholder, loads the route's view and swaps it in,
// keeping history and per-path scroll positions in step.
package router

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/wordtracker/internal/domain/route"
	"github.com/okian/wordtracker/internal/render"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

// Loader fetches and renders the view of a resolved route.
type Loader interface {
	Load(ctx context.Context, r route.Route) (render.View, error)
}

// Disposer removes a listener installed for a view.
type Disposer func()

// Viewport is the page the router draws into.
type Viewport interface {
	// Show replaces the content region with v.
	Show(ctx context.Context, v render.View) error
	// Bind installs a view behaviour and returns its disposer.
	Bind(b render.Behavior) Disposer
	ScrollY() float64
	ScrollTo(y float64)
}

// History records client navigations.
type History interface {
	Push(url string)
}

// Router is safe for concurrent use. Its mutex is never held while a view
// is loading.
type Router struct {
	loader   Loader
	viewport Viewport
	history  History
	logger   logger.Logger

	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	disposers []Disposer
	scroll    map[string]float64
	// rendered is the scroll key of the view on screen; empty while a
	// placeholder is shown.
	rendered string
	closed   bool
}

// New creates a router. None of the dependencies may be nil.
func New(loader Loader, viewport Viewport, history History, opts ...Option) (*Router, error) {
	if loader == nil || viewport == nil || history == nil {
		return nil, ErrMissingDependency
	}
	r := &Router{
		loader:   loader,
		viewport: viewport,
		history:  history,
		scroll:   make(map[string]float64),
		state:    State{Status: Idle},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("router")
	}
	return r, nil
}

// Navigate handles a link click or programmatic navigation: it pushes url
// onto the history and loads it.
func (r *Router) Navigate(ctx context.Context, url string) error {
	return r.load(ctx, url, true)
}

// PopState handles back/forward: the browser already moved the history, so
// url is loaded without pushing.
func (r *Router) PopState(ctx context.Context, url string) error {
	return r.load(ctx, url, false)
}

// Start renders the initial URL of the page without touching history.
func (r *Router) Start(ctx context.Context, url string) error {
	return r.load(ctx, url, false)
}

// State returns a snapshot of the router state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ScrollOffset returns the remembered offset for url. Aliases of the same
// page share one entry.
func (r *Router) ScrollOffset(url string) (float64, bool) {
	key := scrollKey(url)
	r.mu.Lock()
	defer r.mu.Unlock()
	y, ok := r.scroll[key]
	return y, ok
}

// Close cancels the in-flight load and disposes the current view's
// listeners. Later navigations fail with ErrClosed.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Generation++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.disposeLocked()
}

func (r *Router) load(parent context.Context, url string, push bool) error {
	rt := route.Resolve(url)
	start := time.Now()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.rendered != "" {
		r.scroll[r.rendered] = r.viewport.ScrollY()
		r.rendered = ""
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.state.Generation++
	gen := r.state.Generation

	if push {
		r.history.Push(url)
	}
	r.disposeLocked()

	if rt.Kind == route.NotFound {
		r.showLocked(ctx, render.NotFound())
		r.state.Status, r.state.Path = NotFoundPage, rt.Path
		r.viewport.ScrollTo(0)
		r.cancel = nil
		r.mu.Unlock()
		cancel()
		metrics.RecordNavigation(rt.Kind.String(), "not_found", msSince(start))
		return nil
	}

	r.showLocked(ctx, render.Loading())
	r.state.Status, r.state.Path = Loading, rt.Path
	r.mu.Unlock()

	view, err := r.loader.Load(ctx, rt)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.state.Generation {
		metrics.RecordStaleDiscarded("router")
		r.logger.Debug(ctx, "discarding stale view",
			logger.String("path", rt.Path),
			logger.Int("generation", int(gen)),
		)
		return ErrStale
	}
	r.cancel = nil
	defer cancel()

	if err != nil {
		r.logger.Warn(ctx, "route load failed",
			logger.String("path", rt.Path),
			logger.String("route", rt.Kind.String()),
			logger.Error(err),
		)
		r.showLocked(ctx, render.Unavailable())
		r.state.Status = Failed
		r.viewport.ScrollTo(0)
		metrics.RecordNavigation(rt.Kind.String(), "failed", msSince(start))
		return errors.Join(ErrLoad, err)
	}

	r.showLocked(ctx, view)
	for _, b := range view.Behaviors {
		if d := r.viewport.Bind(b); d != nil {
			r.disposers = append(r.disposers, d)
		}
	}
	r.state.Status = Rendered
	r.rendered = rt.Link()
	if y, ok := r.scroll[r.rendered]; ok {
		r.viewport.ScrollTo(y)
	} else {
		r.viewport.ScrollTo(0)
	}
	metrics.RecordNavigation(rt.Kind.String(), "rendered", msSince(start))
	return nil
}

// showLocked draws v; a failing viewport is logged but never stops the
// state machine.
func (r *Router) showLocked(ctx context.Context, v render.View) {
	if err := r.viewport.Show(ctx, v); err != nil {
		r.logger.Error(ctx, "viewport show failed", logger.String("view", v.Title), logger.Error(err))
	}
}

func (r *Router) disposeLocked() {
	for _, d := range r.disposers {
		d()
	}
	r.disposers = nil
}

// scrollKey maps a URL to the canonical link of its page.
func scrollKey(url string) string {
	return route.Resolve(url).Link()
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
