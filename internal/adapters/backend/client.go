// Package backend is the HTTP client for the tracker API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wordtracker/internal/domain/model"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

// Client defaults.
const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 2
	drainLimit     = 64 << 10
)

// Client fetches JSON from a fixed base URL with a per-attempt timeout and a
// bounded number of immediate retries. It is safe for concurrent use.
type Client struct {
	baseURL      string
	http         *http.Client
	timeout      time.Duration
	retries      int
	logger       logger.Logger
	newRequestID func() string
}

// New creates a client for baseURL, e.g. "https://tracker.example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		timeout:      defaultTimeout,
		retries:      defaultRetries,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("backend")
	}
	return c
}

// BaseURL returns the URL API paths are appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchJSON requests baseURL+path and decodes the JSON body into out.
// Network failures, timeouts and 5xx responses are retried; any other
// failure is returned at once. Errors are *FetchError unless the path is
// invalid.
func (c *Client) FetchJSON(ctx context.Context, path string, out any) error {
	if !strings.HasPrefix(path, "/") {
		return ErrInvalidPath
	}

	endpoint := endpointOf(path)
	requestID := c.newRequestID()
	attempts := c.retries + 1

	var last *FetchError
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			metrics.RecordBackendRetry(endpoint)
		}

		start := time.Now()
		ferr := c.attempt(ctx, path, requestID, out)
		metrics.RecordBackendAttempt(endpoint, float64(time.Since(start).Milliseconds()))
		if ferr == nil {
			metrics.RecordBackendResult(endpoint, "")
			return nil
		}

		ferr.Attempts = attempt
		last = ferr
		if ctx.Err() != nil || !ferr.transient() {
			break
		}
		if attempt < attempts {
			c.logger.Warn(ctx, "backend attempt failed, retrying",
				logger.String("path", path),
				logger.String("request_id", requestID),
				logger.Int("attempt", attempt),
				logger.String("kind", ferr.Kind.String()),
				logger.Error(ferr.Err),
			)
		}
	}

	metrics.RecordBackendResult(endpoint, last.Kind.String())
	c.logger.Error(ctx, "backend request failed",
		logger.String("path", path),
		logger.String("request_id", requestID),
		logger.Int("attempts", last.Attempts),
		logger.String("kind", last.Kind.String()),
		logger.Int("status", last.Status),
	)
	return last
}

func (c *Client) attempt(ctx context.Context, path, requestID string, out any) *FetchError {
	actx, cancel := ctx, context.CancelFunc(func() {})
	if c.timeout > 0 {
		actx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Kind: classify(ctx, actx, err), Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		return &FetchError{Kind: HTTPError, Status: resp.StatusCode, Path: path}
	}

	// out is only written once a complete body has arrived, so a retried
	// attempt never sees fields left over from an interrupted one.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if actx.Err() != nil {
			return &FetchError{Kind: classify(ctx, actx, err), Path: path, Err: err}
		}
		return &FetchError{Kind: MalformedData, Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &FetchError{Kind: MalformedData, Path: path, Err: err}
	}
	return nil
}

// classify maps a transport error to a Kind. Cancellation by the caller is a
// network failure whose chain still matches context.Canceled.
func classify(parent, attempt context.Context, err error) Kind {
	if errors.Is(parent.Err(), context.Canceled) {
		return NetworkFailure
	}
	if errors.Is(attempt.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	return NetworkFailure
}

// endpointOf returns a low-cardinality label for path.
func endpointOf(path string) string {
	p, _, _ := strings.Cut(path, "?")
	switch {
	case p == "/":
		return "home"
	case strings.HasPrefix(p, "/player/"):
		return "player"
	case strings.HasPrefix(p, "/match/"):
		return "match"
	case p == "/search":
		return "search"
	case p == "/api/players":
		return "players"
	default:
		return "other"
	}
}

// Home fetches the leaderboard and recent matches.
func (c *Client) Home(ctx context.Context) (*model.HomePayload, error) {
	var out model.HomePayload
	if err := c.FetchJSON(ctx, "/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Player fetches a profile and timeline. name is the decoded display name.
func (c *Client) Player(ctx context.Context, name string) (*model.PlayerPayload, error) {
	var out model.PlayerPayload
	if err := c.FetchJSON(ctx, "/player/"+url.PathEscape(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Match fetches a match detail. id is the decoded match id.
func (c *Client) Match(ctx context.Context, id string) (*model.MatchDetail, error) {
	var out model.MatchDetail
	if err := c.FetchJSON(ctx, "/match/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search fetches players whose name matches query.
func (c *Client) Search(ctx context.Context, query string) ([]model.PlayerSummary, error) {
	var out []model.PlayerSummary
	if err := c.FetchJSON(ctx, "/search?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Players fetches the alternate per-player statistics table.
func (c *Client) Players(ctx context.Context) (*model.PlayersPayload, error) {
	var out model.PlayersPayload
	if err := c.FetchJSON(ctx, "/api/players", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
