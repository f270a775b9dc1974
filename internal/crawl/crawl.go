// Package crawl walks the tracker backend (home, then players, then
// matches) and reports payloads that break the contract the views rely on.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/wordtracker/internal/adapters/backend"
	"github.com/okian/wordtracker/internal/domain/model"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

const defaultWorkers = 4

// Check names, also used as metric labels.
const (
	CheckLeaderboardSorted = "leaderboard_sorted"
	CheckProfileFound      = "profile_found"
	CheckGamesConsistent   = "games_consistent"
	CheckMatchComplete     = "match_complete"
	CheckMatchWinner       = "match_winner"
	CheckPlayersConsistent = "players_consistent"
)

// Backend is the part of the tracker API the crawler reads.
type Backend interface {
	Home(ctx context.Context) (*model.HomePayload, error)
	Player(ctx context.Context, name string) (*model.PlayerPayload, error)
	Match(ctx context.Context, id string) (*model.MatchDetail, error)
	Players(ctx context.Context) (*model.PlayersPayload, error)
}

// Violation is one failed check.
type Violation struct {
	Check   string
	Subject string
	Detail  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s]: %s", v.Check, v.Subject, v.Detail)
}

// Report summarizes a crawl.
type Report struct {
	Players    int
	Matches    int
	Checks     int
	Violations []Violation
	// Errors are fetches that failed for reasons other than a missing entity.
	Errors   []error
	Duration time.Duration
}

// OK reports whether the crawl found nothing wrong.
func (r *Report) OK() bool {
	return len(r.Violations) == 0 && len(r.Errors) == 0
}

// Crawler runs consistency checks against one backend.
type Crawler struct {
	api        Backend
	workers    int
	maxMatches int
	logger     logger.Logger

	mu     sync.Mutex
	report *Report
}

// New creates a crawler.
func New(api Backend, opts ...Option) (*Crawler, error) {
	if api == nil {
		return nil, ErrNilBackend
	}
	c := &Crawler{
		api:     api,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("crawl")
	}
	return c, nil
}

// Run performs one full crawl. It fails only when the home payload cannot
// be fetched; everything else ends up in the report.
func (c *Crawler) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	c.mu.Lock()
	c.report = &Report{}
	c.mu.Unlock()

	c.logger.Info(ctx, "starting crawl", logger.Int("workers", c.workers))

	// Step 1: home
	home, err := c.api.Home(ctx)
	if err != nil {
		return nil, errors.Join(ErrHomeFailed, err)
	}
	c.checkLeaderboard(home.Leaderboard)

	// Step 2: players from the leaderboard and the alternate players list
	stats := c.playerStats(ctx)
	names := playerNames(home.Leaderboard, stats)
	matchIDs := newIDSet()
	for _, m := range home.RecentMatches {
		matchIDs.add(m.ID)
	}

	pool(ctx, c.workers, names, func(ctx context.Context, name string) {
		p, err := c.api.Player(ctx, name)
		if err != nil {
			c.fetchFailed(ctx, CheckProfileFound, name, err)
			return
		}
		c.checkPlayer(name, p, stats[name])
		for _, t := range p.Timeline {
			matchIDs.add(t.MatchID)
		}
	})

	// Step 3: every match seen so far
	ids := matchIDs.sorted()
	if c.maxMatches > 0 && len(ids) > c.maxMatches {
		ids = ids[:c.maxMatches]
	}
	pool(ctx, c.workers, ids, func(ctx context.Context, id string) {
		m, err := c.api.Match(ctx, id)
		if err != nil {
			c.fetchFailed(ctx, CheckMatchComplete, id, err)
			return
		}
		c.checkMatch(id, m)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.report
	r.Players = len(names)
	r.Matches = len(ids)
	r.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		r.Errors = append(r.Errors, err)
	}

	c.logger.Info(ctx, "crawl finished",
		logger.Int("players", r.Players),
		logger.Int("matches", r.Matches),
		logger.Int("checks", r.Checks),
		logger.Int("violations", len(r.Violations)),
		logger.Int("errors", len(r.Errors)),
		logger.Duration("duration", r.Duration),
	)
	return r, nil
}

// playerStats loads the alternate players list keyed by name. Backends
// without the endpoint yield an empty map.
func (c *Crawler) playerStats(ctx context.Context) map[string]*model.PlayerStats {
	out := map[string]*model.PlayerStats{}
	p, err := c.api.Players(ctx)
	if err != nil {
		if !backend.IsNotFound(err) {
			c.logger.Warn(ctx, "players list unavailable", logger.Error(err))
		}
		return out
	}
	for i := range p.Players {
		out[p.Players[i].Name] = &p.Players[i]
	}
	return out
}

func (c *Crawler) fetchFailed(ctx context.Context, check, subject string, err error) {
	if backend.IsNotFound(err) {
		c.record(check, subject, false, "backend returned 404")
		return
	}
	if ctx.Err() != nil {
		return
	}
	c.logger.Warn(ctx, "fetch failed", logger.String("subject", subject), logger.Error(err))
	c.mu.Lock()
	c.report.Errors = append(c.report.Errors, fmt.Errorf("%s: %w", subject, err))
	c.mu.Unlock()
}

// record counts one check and keeps it when it failed.
func (c *Crawler) record(check, subject string, passed bool, detail string) {
	metrics.RecordCrawlCheck(check, passed)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Checks++
	if !passed {
		c.report.Violations = append(c.report.Violations, Violation{Check: check, Subject: subject, Detail: detail})
	}
}

// playerNames merges leaderboard and players list names, sorted and unique.
func playerNames(board []model.PlayerSummary, stats map[string]*model.PlayerStats) []string {
	set := newIDSet()
	for _, row := range board {
		set.add(row.DisplayName)
	}
	for name := range stats {
		set.add(name)
	}
	return set.sorted()
}

type idSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newIDSet() *idSet { return &idSet{ids: map[string]struct{}{}} }

func (s *idSet) add(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.mu.Unlock()
}

func (s *idSet) sorted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
