package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidPath is returned without any network call when an API path does
// not start with "/".
var ErrInvalidPath = errors.New("api path must start with /")

// Kind classifies a failed backend call.
type Kind int

// Error kinds.
const (
	NetworkFailure Kind = iota + 1
	Timeout
	HTTPError
	MalformedData
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case Timeout:
		return "timeout"
	case HTTPError:
		return "http_error"
	case MalformedData:
		return "malformed_data"
	default:
		return "unknown"
	}
}

// FetchError describes a backend call that failed after all attempts.
type FetchError struct {
	Kind Kind
	// Status is the HTTP status for HTTPError, zero otherwise.
	Status int
	// Path is the API path that was requested.
	Path string
	// Attempts is how many requests were issued.
	Attempts int
	// Err is the underlying cause, if any.
	Err error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("backend %s %s after %d attempt(s)", e.Path, e.Kind, e.Attempts)
	if e.Kind == HTTPError {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// transient reports whether another attempt may succeed.
func (e *FetchError) transient() bool {
	switch e.Kind {
	case NetworkFailure, Timeout:
		return true
	case HTTPError:
		return e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == HTTPError && fe.Status == http.StatusNotFound
}

// KindOf returns the kind of a *FetchError in err's chain, or zero.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
