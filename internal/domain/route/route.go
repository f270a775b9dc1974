// Package route resolves client URLs to the three tracker routes and builds
// outgoing links.
package route

import (
	"net/url"
	"strings"
)

// Kind identifies which view handles a URL.
type Kind int

// Route kinds. Every URL resolves to exactly one of them.
const (
	NotFound Kind = iota
	Home
	Player
	Match
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case Home:
		return "home"
	case Player:
		return "player"
	case Match:
		return "match"
	default:
		return "not_found"
	}
}

const (
	playerPrefix = "/player/"
	matchPrefix  = "/match/"

	// Aliases used by the multi-page layout.
	indexPage  = "/index.html"
	playerPage = "/player.html"
	matchPage  = "/match.html"
)

// Route is a resolved URL.
type Route struct {
	Kind Kind
	// Param is the decoded player name or match id; empty for Home and NotFound.
	Param string
	// Path is the URL path without query or fragment. It keys scroll memory.
	Path string
	// Query holds the parsed query string, kept for parameter extraction.
	Query url.Values
}

// Resolve maps a URL (path with optional query and fragment) to a Route.
func Resolve(raw string) Route {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	path, rawQuery, _ := strings.Cut(raw, "?")
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}

	r := Route{Kind: NotFound, Path: path, Query: query}

	switch {
	case path == "/" || path == indexPage:
		r.Kind = Home
	case path == playerPage:
		r.Kind, r.Param = paramFromQuery(Player, query.Get("name"))
	case path == matchPage:
		r.Kind, r.Param = paramFromQuery(Match, query.Get("id"))
	case strings.HasPrefix(path, playerPrefix):
		r.Kind, r.Param = paramFromSegment(Player, path[len(playerPrefix):])
	case strings.HasPrefix(path, matchPrefix):
		r.Kind, r.Param = paramFromSegment(Match, path[len(matchPrefix):])
	}
	return r
}

func paramFromQuery(kind Kind, value string) (Kind, string) {
	if strings.TrimSpace(value) == "" {
		return NotFound, ""
	}
	return kind, value
}

// paramFromSegment decodes the single path segment after a route prefix.
// A trailing slash is tolerated; nested segments are not.
func paramFromSegment(kind Kind, segment string) (Kind, string) {
	segment = strings.TrimSuffix(segment, "/")
	if segment == "" || strings.Contains(segment, "/") {
		return NotFound, ""
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil || strings.TrimSpace(decoded) == "" {
		return NotFound, ""
	}
	return kind, decoded
}

// PlayerPath builds the client link to a player's profile.
func PlayerPath(name string) string {
	return playerPrefix + url.PathEscape(name)
}

// MatchPath builds the client link to a match.
func MatchPath(id string) string {
	return matchPrefix + url.PathEscape(id)
}

// HomePath is the client link to the home page.
const HomePath = "/"

// Link returns the canonical client path of r. NotFound routes keep their
// original path.
func (r Route) Link() string {
	switch r.Kind {
	case Home:
		return HomePath
	case Player:
		return PlayerPath(r.Param)
	case Match:
		return MatchPath(r.Param)
	default:
		return r.Path
	}
}
