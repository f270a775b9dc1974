// Package search implements the live player search box: debounced input,
// stale-response guarding and dropdown dismissal.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/okian/wordtracker/internal/domain/model"
	"github.com/okian/wordtracker/internal/domain/route"
	"github.com/okian/wordtracker/internal/render"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

// Defaults.
const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultMinLength = 2
)

// Searcher queries players by name.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.PlayerSummary, error)
}

// Panel is the search box and its dropdown.
type Panel interface {
	// Show fills the dropdown with v and makes it visible.
	Show(ctx context.Context, v render.View) error
	// Hide empties and hides the dropdown.
	Hide()
	// ClearInput empties the text field.
	ClearInput()
}

// Navigator opens a client route.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Controller is safe for concurrent use. Its mutex is never held across a
// backend call.
type Controller struct {
	searcher  Searcher
	panel     Panel
	nav       Navigator
	clock     Clock
	debounce  time.Duration
	minLength int
	logger    logger.Logger

	mu      sync.Mutex
	seq     uint64
	timer   Timer
	cancel  context.CancelFunc
	visible bool
	closed  bool
}

// New creates a controller. None of the dependencies may be nil.
func New(searcher Searcher, panel Panel, nav Navigator, opts ...Option) (*Controller, error) {
	if searcher == nil || panel == nil || nav == nil {
		return nil, ErrMissingDependency
	}
	c := &Controller{
		searcher:  searcher,
		panel:     panel,
		nav:       nav,
		clock:     realClock{},
		debounce:  DefaultDebounce,
		minLength: DefaultMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("search")
	}
	return c, nil
}

// Input handles a change of the search field. Short queries hide the
// dropdown at once; longer ones are searched once input settles.
func (c *Controller) Input(ctx context.Context, text string) {
	query := strings.TrimSpace(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	seq := c.invalidateLocked()

	if utf8.RuneCountInString(query) < c.minLength {
		c.panel.Hide()
		c.visible = false
		c.mu.Unlock()
		metrics.RecordSearchSkipped()
		return
	}

	if c.debounce <= 0 {
		c.mu.Unlock()
		c.run(ctx, seq, query)
		return
	}
	c.timer = c.clock.AfterFunc(c.debounce, func() { c.run(ctx, seq, query) })
	c.mu.Unlock()
}

// Escape clears the field and the results.
func (c *Controller) Escape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.panel.ClearInput()
	c.panel.Hide()
	c.visible = false
}

// ClickOutside hides the dropdown. A pending search still completes.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible {
		c.panel.Hide()
		c.visible = false
	}
}

// Select opens the player's profile and hides the dropdown.
func (c *Controller) Select(ctx context.Context, name string) error {
	c.mu.Lock()
	c.invalidateLocked()
	c.panel.Hide()
	c.visible = false
	c.mu.Unlock()
	return c.nav.Navigate(ctx, route.PlayerPath(name))
}

// Visible reports whether the dropdown is shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Close stops the debounce timer and cancels in-flight work.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.closed = true
}

// invalidateLocked supersedes every pending or in-flight search and returns
// the new sequence number.
func (c *Controller) invalidateLocked() uint64 {
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.seq
}

func (c *Controller) run(parent context.Context, seq uint64, query string) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	metrics.RecordSearchRequest()
	rows, err := c.searcher.Search(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		metrics.RecordStaleDiscarded("search")
		return
	}
	c.cancel = nil
	if err != nil {
		c.logger.Warn(ctx, "search failed", logger.String("query", query), logger.Error(err))
		rows = nil
	}
	if err := c.panel.Show(ctx, render.SearchResults(rows)); err != nil {
		c.logger.Error(ctx, "search panel show failed", logger.Error(err))
		return
	}
	c.visible = true
}
