// Package app wires the router and the search controller into a page
// session and provides the route loader both runtimes share.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/wordtracker/internal/adapters/backend"
	"github.com/okian/wordtracker/internal/domain/model"
	"github.com/okian/wordtracker/internal/domain/route"
	"github.com/okian/wordtracker/internal/render"
)

// API is the subset of the backend the page views need.
type API interface {
	Home(ctx context.Context) (*model.HomePayload, error)
	Player(ctx context.Context, name string) (*model.PlayerPayload, error)
	Match(ctx context.Context, id string) (*model.MatchDetail, error)
}

// Pages loads and renders the view of a route.
type Pages struct {
	api   API
	limit int
}

// NewPages creates a loader. limit caps the leaderboard; <= 0 uses the
// default of ten rows.
func NewPages(api API, limit int) *Pages {
	if limit <= 0 {
		limit = render.DefaultLeaderboardLimit
	}
	return &Pages{api: api, limit: limit}
}

// Load fetches the route's payload and renders it. A backend 404 for a
// player or match yields that view's not-found placeholder with a 404
// status; any other backend failure is returned.
func (p *Pages) Load(ctx context.Context, r route.Route) (render.View, error) {
	switch r.Kind {
	case route.Home:
		home, err := p.api.Home(ctx)
		if err != nil {
			return render.View{}, fmt.Errorf("load home: %w", err)
		}
		return render.Home(home, p.limit), nil

	case route.Player:
		payload, err := p.api.Player(ctx, r.Param)
		if backend.IsNotFound(err) {
			return render.Player(r.Param, nil), nil
		}
		if err != nil {
			return render.View{}, fmt.Errorf("load player %q: %w", r.Param, err)
		}
		return render.Player(r.Param, payload), nil

	case route.Match:
		detail, err := p.api.Match(ctx, r.Param)
		if backend.IsNotFound(err) {
			v := render.Match(r.Param, nil)
			v.Status = http.StatusNotFound
			return v, nil
		}
		if err != nil {
			return render.View{}, fmt.Errorf("load match %q: %w", r.Param, err)
		}
		return render.Match(r.Param, detail), nil

	default:
		return render.NotFound(), nil
	}
}
