// Package site is the front server: it renders the tracker routes on the
// server for first paint and serves the search fragment, static assets and
// the browser client bundle.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/okian/wordtracker/internal/adapters/backend"
	"github.com/okian/wordtracker/internal/adapters/http/swagger"
	"github.com/okian/wordtracker/internal/app"
	"github.com/okian/wordtracker/internal/domain/model"
	"github.com/okian/wordtracker/internal/domain/route"
	"github.com/okian/wordtracker/internal/render"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

// Sentinel errors.
var (
	ErrNilBackend = errors.New("site: backend is required")
)

// Backend is the tracker API as the front server uses it.
type Backend interface {
	app.API
	Search(ctx context.Context, query string) ([]model.PlayerSummary, error)
	Players(ctx context.Context) (*model.PlayersPayload, error)
}

// bundleFiles are served from the assets directory rather than the embed.
var bundleFiles = map[string]bool{"main.wasm": true, "wasm_exec.js": true}

// Server renders pages from one shared backend client.
type Server struct {
	backend Backend
	pages   *app.Pages
	group   singleflight.Group
	logger  logger.Logger

	siteName     string
	backendURL   string
	assetsDir    string
	clientScript bool
	limit        int
	minLength    int
}

// New creates a front server.
func New(b Backend, opts ...Option) (*Server, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	s := &Server{
		backend:   b,
		siteName:  render.DefaultSiteName,
		limit:     render.DefaultLeaderboardLimit,
		minLength: 2,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("site")
	}
	s.pages = app.NewPages(b, s.limit)
	return s, nil
}

// Handler returns the HTTP routes of the front server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/static/*", s.handleStatic)
	swagger.Register(r)

	r.Get("/search", s.handleSearch)
	r.Get("/fragment", s.handleFragment)
	r.Get("/players", s.handlePlayers)

	r.Get("/", s.handlePage)
	r.Get("/index.html", s.handlePage)
	r.Get("/player.html", s.handlePage)
	r.Get("/match.html", s.handlePage)
	r.Get("/player/*", s.handlePage)
	r.Get("/match/*", s.handlePage)
	r.NotFound(s.handlePage)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handlePage renders any client route inside the full page shell.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.view(r.Context(), requestURL(r))
	s.write(w, r, v.Status, render.Layout(v, s.layoutOptions()))
}

// handleFragment renders only the content region for ?path=.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if !strings.HasPrefix(path, "/") {
		path = "/"
	}
	v := s.view(r.Context(), path)
	s.write(w, r, v.Status, v.Body)
}

// handleSearch renders the dropdown for ?q=. Short queries get an empty body.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(q) < s.minLength {
		metrics.RecordSearchSkipped()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return
	}

	metrics.RecordSearchRequest()
	res, err, shared := s.group.Do("search:"+q, func() (any, error) {
		return s.backend.Search(context.WithoutCancel(r.Context()), q)
	})
	if shared {
		metrics.RecordBackendShared()
	}
	var rows []model.PlayerSummary
	if err != nil {
		s.logger.Warn(r.Context(), "search failed", logger.String("query", q), logger.Error(err))
	} else {
		rows, _ = res.([]model.PlayerSummary)
	}
	s.write(w, r, http.StatusOK, render.SearchResults(rows).Body)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	res, err, shared := s.group.Do("players", func() (any, error) {
		return s.backend.Players(context.WithoutCancel(r.Context()))
	})
	if shared {
		metrics.RecordBackendShared()
	}
	v := render.Unavailable()
	if err != nil {
		s.logger.Warn(r.Context(), "players load failed", logger.Error(err))
	} else {
		payload, _ := res.(*model.PlayersPayload)
		v = render.PlayersTable(payload)
	}
	s.write(w, r, v.Status, render.Layout(v, s.layoutOptions()))
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if bundleFiles[name] {
		if s.assetsDir == "" {
			http.NotFound(w, r)
			return
		}
		if name == "main.wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}
		http.ServeFile(w, r, filepath.Join(s.assetsDir, name))
		return
	}
	http.StripPrefix("/static/", http.FileServer(FS())).ServeHTTP(w, r)
}

// view resolves url and loads its view, collapsing identical concurrent
// loads. Backend failures become the unavailable view.
func (s *Server) view(ctx context.Context, url string) render.View {
	rt := route.Resolve(url)
	if rt.Kind == route.NotFound {
		return render.NotFound()
	}

	res, err, shared := s.group.Do("page:"+rt.Link(), func() (any, error) {
		return s.pages.Load(context.WithoutCancel(ctx), rt)
	})
	if shared {
		metrics.RecordBackendShared()
	}
	if err != nil {
		s.logger.Warn(ctx, "page load failed",
			logger.String("path", rt.Path),
			logger.String("kind", backend.KindOf(err).String()),
			logger.Error(err),
		)
		return render.Unavailable()
	}
	v, _ := res.(render.View)
	return v
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	if status == 0 {
		status = http.StatusOK
	}
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Server) layoutOptions() render.LayoutOptions {
	return render.LayoutOptions{SiteName: s.siteName, ClientScript: s.clientScript, BackendURL: s.backendURL}
}

// requestURL is the escaped path and query of r, as the client router sees it.
func requestURL(r *http.Request) string {
	u := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}
	return u
}

// HasClientBundle reports whether dir holds the compiled browser client.
func HasClientBundle(dir string) bool {
	if dir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "main.wasm"))
	return err == nil
}
