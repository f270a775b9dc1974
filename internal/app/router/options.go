package router

import (
	"github.com/okian/wordtracker/pkg/logger"
)

// Option applies a configuration option to the Router.
type Option func(*Router)

// WithLogger sets a custom logger for the router.
func WithLogger(l logger.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithScrollMemory seeds remembered offsets, e.g. from a restored session.
func WithScrollMemory(offsets map[string]float64) Option {
	return func(r *Router) {
		for url, y := range offsets {
			r.scroll[scrollKey(url)] = y
		}
	}
}
