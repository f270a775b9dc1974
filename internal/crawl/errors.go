package crawl

import "errors"

// Sentinel errors.
var (
	ErrNilBackend = errors.New("crawl: backend is required")
	ErrHomeFailed = errors.New("crawl: home payload unavailable")
)
