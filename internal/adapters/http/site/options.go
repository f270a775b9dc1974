package site

import (
	"github.com/okian/wordtracker/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSiteName sets the name shown in the header and titles.
func WithSiteName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.siteName = name
		}
	}
}

// WithAssetsDir sets where main.wasm and wasm_exec.js are served from.
func WithAssetsDir(dir string) Option {
	return func(s *Server) {
		s.assetsDir = dir
	}
}

// WithClientScript makes pages load the browser client bundle.
func WithClientScript(enabled bool) Option {
	return func(s *Server) {
		s.clientScript = enabled
	}
}

// WithLeaderboardLimit caps the home leaderboard.
func WithLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithSearchMinLength sets the shortest query forwarded to the backend.
func WithSearchMinLength(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.minLength = n
		}
	}
}

// WithBackendURL publishes the API base URL to the browser client.
func WithBackendURL(url string) Option {
	return func(s *Server) {
		s.backendURL = url
	}
}
