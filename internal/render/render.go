// Package render turns tracker payloads into HTML fragments.
//
// Every constructor is pure: it reads only its arguments and writes markup.
// All interpolated text goes through html.EscapeString and every internal
// link carries data-route so the client router can intercept it.
package render

import (
	"context"
	"fmt"
	"html"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/okian/wordtracker/internal/domain/model"
)

// DefaultLeaderboardLimit is how many leaderboard rows the home view shows.
const DefaultLeaderboardLimit = 10

// Behavior names client-side interactivity a view needs after it is
// inserted into the page.
type Behavior string

// Known behaviours.
const (
	// WordListToggle expands and collapses a match player's word list.
	WordListToggle Behavior = "word-list-toggle"
)

// View is a rendered route: its content fragment, the HTTP status the
// server should answer with and the behaviours to install.
type View struct {
	Title     string
	Status    int
	Body      templ.Component
	Behaviors []Behavior
}

// FormatDuration renders seconds as "<m>m <s>s".
func FormatDuration(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}

// SortLeaderboard returns rows ordered by wins descending, keeping the
// backend order on ties, cut to limit rows. A limit <= 0 keeps every row.
// The input slice is not modified.
func SortLeaderboard(rows []model.PlayerSummary, limit int) []model.PlayerSummary {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b model.PlayerSummary) int {
		return b.Wins - a.Wins
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ToString renders c into a string. Used by tests and the DOM adapter.
func ToString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// fragment builds a component from a function writing into a builder.
// The markup is emitted in one write so a failed writer leaves nothing
// half-rendered behind.
func fragment(build func(b *builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

type builder struct {
	strings.Builder
}

// raw appends trusted markup.
func (b *builder) raw(s ...string) {
	for _, p := range s {
		b.WriteString(p)
	}
}

// text appends escaped text.
func (b *builder) text(s string) {
	b.WriteString(html.EscapeString(s))
}

// textf appends escaped formatted text.
func (b *builder) textf(format string, args ...any) {
	b.text(fmt.Sprintf(format, args...))
}

// link appends an intercepted internal anchor.
func (b *builder) link(href, class, label string) {
	b.raw(`<a href="`, html.EscapeString(href), `" data-route`)
	if class != "" {
		b.raw(` class="`, class, `"`)
	}
	b.raw(">")
	b.text(label)
	b.raw("</a>")
}

// emptyState appends the muted placeholder used for missing data.
func (b *builder) emptyState(title, detail string) {
	b.raw(`<div class="empty-state">`)
	if title != "" {
		b.raw("<h3>")
		b.text(title)
		b.raw("</h3>")
	}
	if detail != "" {
		b.raw("<p>")
		b.text(detail)
		b.raw("</p>")
	}
	b.raw("</div>")
}

// resultClass maps a result to a CSS modifier; unknown values are sanitized.
func resultClass(r model.Result) string {
	var sb strings.Builder
	for _, c := range strings.ToLower(string(r)) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			sb.WriteRune(c)
		}
	}
	if sb.Len() == 0 {
		return "match-unknown"
	}
	return "match-" + sb.String()
}
