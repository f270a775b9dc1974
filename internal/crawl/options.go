package crawl

import (
	"github.com/okian/wordtracker/pkg/logger"
)

// Option applies a configuration option to the Crawler.
type Option func(*Crawler)

// WithWorkers sets how many players or matches are fetched concurrently.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMaxMatches caps the number of matches checked. Zero means no cap.
func WithMaxMatches(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.maxMatches = n
		}
	}
}

// WithLogger sets a custom logger for the crawler.
func WithLogger(l logger.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}
