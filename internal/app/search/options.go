package search

import (
	"errors"
	"time"

	"github.com/okian/wordtracker/pkg/logger"
)

// ErrMissingDependency is returned by New when a dependency is nil.
var ErrMissingDependency = errors.New("search: searcher, panel and navigator are required")

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithDebounce sets the input quiet period. Zero searches on every input.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithMinLength sets the shortest query, in runes, that is searched.
func WithMinLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.minLength = n
		}
	}
}

// WithClock replaces the timer source.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the controller.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}
