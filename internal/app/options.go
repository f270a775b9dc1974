package app

import (
	"time"

	"github.com/okian/wordtracker/internal/app/search"
	"github.com/okian/wordtracker/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithDebounce sets the search input quiet period. Zero searches at once.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithMinLength sets the shortest searched query.
func WithMinLength(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.minLength = n
		}
	}
}

// WithLeaderboardLimit caps the home leaderboard.
func WithLeaderboardLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithClock replaces the search debounce clock.
func WithClock(c search.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithScrollMemory seeds the router's remembered scroll offsets.
func WithScrollMemory(offsets map[string]float64) Option {
	return func(s *Session) {
		s.scrollSeeds = offsets
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
