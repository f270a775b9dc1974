package router

import "errors"

// Sentinel errors.
var (
	ErrMissingDependency = errors.New("router: loader, viewport and history are required")
	ErrClosed            = errors.New("router: closed")
	// ErrStale is returned when a newer navigation superseded this one.
	ErrStale = errors.New("router: navigation superseded")
	// ErrLoad wraps a loader failure; the unavailable view is shown.
	ErrLoad = errors.New("router: load failed")
)
