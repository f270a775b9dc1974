package render

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/okian/wordtracker/internal/domain/model"
	"github.com/okian/wordtracker/internal/domain/route"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04 MST"
)

// Home renders the leaderboard and the recent matches.
func Home(p *model.HomePayload, limit int) View {
	if p == nil {
		p = &model.HomePayload{}
	}
	leaders := SortLeaderboard(p.Leaderboard, limit)
	matches := p.RecentMatches

	body := fragment(func(b *builder) {
		b.raw(`<section class="card" id="leaderboard-section">`,
			`<h2 class="section-title">Top Players Leaderboard</h2>`)
		if len(leaders) == 0 {
			b.raw(`<div class="empty-state">No leaderboard data available.</div>`)
		} else {
			b.raw(`<ul class="data-list">`)
			for i, pl := range leaders {
				b.raw(`<li class="data-list-item">`,
					`<span class="leaderboard-rank">#`, strconv.Itoa(i+1), `</span>`)
				b.link(route.PlayerPath(pl.DisplayName), "leaderboard-name", pl.DisplayName)
				b.raw(`<span class="leaderboard-wins">`, strconv.Itoa(pl.Wins), ` Wins</span></li>`)
			}
			b.raw(`</ul>`)
		}
		b.raw(`</section>`)

		b.raw(`<section class="card" id="recent-matches-section">`,
			`<h2 class="section-title">Recent Matches</h2>`)
		if len(matches) == 0 {
			b.raw(`<div class="empty-state">No recent matches found.</div>`)
		} else {
			b.raw(`<ul class="data-list">`)
			for _, m := range matches {
				b.raw(`<li class="data-list-item">`)
				b.link(route.MatchPath(m.ID), "", "Match ID: "+m.ID)
				b.raw(`<span>Winner: <span class="match-winner">`)
				b.text(m.Winner)
				b.raw(`</span></span><span>Played: `)
				b.text(playedAt(m.PlayedAt, dateLayout))
				b.raw(`</span><span>Duration: `, FormatDuration(m.DurationSec), `</span></li>`)
			}
			b.raw(`</ul>`)
		}
		b.raw(`</section>`)
	})

	return View{Title: "Leaderboard", Status: http.StatusOK, Body: body}
}

// Player renders a profile and its timeline. name is the requested name,
// shown when the backend has no profile for it.
func Player(name string, p *model.PlayerPayload) View {
	if p == nil || p.Profile == nil {
		return View{
			Title:  "Player Not Found",
			Status: http.StatusNotFound,
			Body: fragment(func(b *builder) {
				b.emptyState("Player Not Found", "Could not load profile for player: "+name+".")
			}),
		}
	}
	prof := *p.Profile
	timeline := p.Timeline

	body := fragment(func(b *builder) {
		b.raw(`<header class="match-detail-header"><h2>Player Profile: `)
		b.text(prof.DisplayName)
		b.raw(`</h2></header>`)

		b.raw(`<section class="card profile-stats-card"><div class="profile-stats">`)
		stat(b, strconv.Itoa(prof.GamesPlayed), "Games Played")
		stat(b, strconv.Itoa(prof.Wins), "Wins")
		stat(b, strconv.Itoa(prof.Losses), "Losses")
		stat(b, strconv.Itoa(prof.TotalWords), "Total Words Used")
		stat(b, WinRate(prof.Wins, prof.GamesPlayed), "Win Rate")
		b.raw(`</div></section>`)

		b.raw(`<section class="card" id="timeline-section">`,
			`<h2 class="section-title">Lifetime Match Timeline</h2>`)
		if len(timeline) == 0 {
			b.raw(`<div class="empty-state">No match history found for this player.</div>`)
		} else {
			b.raw(`<ul class="data-list timeline-list">`)
			for _, item := range timeline {
				b.raw(`<li class="timeline-item">`)
				b.link(route.MatchPath(item.MatchID), "", "Match ID: "+item.MatchID)
				b.raw(`<span class="timeline-item-status `, resultClass(item.Result), `">`)
				b.text(item.Result.Label())
				b.raw(`</span><span class="timeline-item-ago">`)
				b.text(item.Ago)
				b.raw(`</span></li>`)
			}
			b.raw(`</ul>`)
		}
		b.raw(`</section>`)
	})

	return View{Title: prof.DisplayName, Status: http.StatusOK, Body: body}
}

// WinRate returns wins/games as a percentage with one decimal place.
func WinRate(wins, games int) string {
	if games <= 0 {
		return "0.0%"
	}
	rate := decimal.NewFromInt(int64(wins)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(games)))
	return rate.StringFixed(1) + "%"
}

func stat(b *builder, value, label string) {
	b.raw(`<div class="stat-box"><div class="stat-value">`)
	b.text(value)
	b.raw(`</div><div class="stat-label">`, label, `</div></div>`)
}

// WordListID is the element id of a player's word list in the match view.
func WordListID(player string) string {
	return "words-" + player
}

// WordToggleLabel is the text of a word list toggle button.
func WordToggleLabel(shown bool, count int) string {
	verb := "Show"
	if shown {
		verb = "Hide"
	}
	return verb + " Words Used (" + strconv.Itoa(count) + ")"
}

// Match renders a match with its players and collapsible word lists. id is
// the requested id, shown when the payload is incomplete.
func Match(id string, m *model.MatchDetail) View {
	if m == nil || !m.Complete() {
		return View{
			Title:  "Match Data Incomplete",
			Status: http.StatusOK,
			Body: fragment(func(b *builder) {
				b.emptyState("Match Data Incomplete", "Match ID "+id+" has missing required data.")
			}),
		}
	}
	match := *m

	body := fragment(func(b *builder) {
		b.raw(`<header class="match-detail-header"><h2>Match `)
		b.text(match.ID)
		b.raw(`</h2><p>Played at: `)
		b.text(playedAt(match.PlayedAt, dateTimeLayout))
		b.raw(`</p><p>Duration: <strong>`, FormatDuration(match.DurationSec), `</strong></p>`,
			`<p>Winner: <span class="match-winner">`)
		b.text(match.Winner)
		b.raw(`</span></p></header>`)

		b.raw(`<section class="card"><h3 class="section-title">Players &amp; Statistics</h3>`,
			`<div class="player-match-stats">`)
		for _, pl := range match.Players {
			class := "card player-card"
			if pl.Result == model.ResultWin {
				class += " winner"
			}
			b.raw(`<div class="`, class, `"><h4>`)
			b.link(route.PlayerPath(pl.Name), "", pl.Name)
			b.raw(`<span class="match-status `, resultClass(pl.Result), `">`)
			b.text(pl.Result.Label())
			b.raw(`</span></h4><p>Words Used: <strong>`, strconv.Itoa(pl.WordCount), `</strong></p>`)

			b.raw(`<button type="button" class="word-list-toggle" data-player-words="`)
			b.text(pl.Name)
			b.raw(`" data-word-count="`, strconv.Itoa(len(pl.Words)), `" aria-expanded="false">`)
			b.text(WordToggleLabel(false, len(pl.Words)))
			b.raw(`</button><ul class="word-list" id="`)
			b.text(WordListID(pl.Name))
			b.raw(`" hidden>`)
			for _, w := range pl.Words {
				b.raw("<li>")
				b.text(w)
				b.raw("</li>")
			}
			b.raw(`</ul></div>`)
		}
		b.raw(`</div></section>`)
	})

	return View{
		Title:     "Match " + match.ID,
		Status:    http.StatusOK,
		Body:      body,
		Behaviors: []Behavior{WordListToggle},
	}
}

// SearchResults renders the search dropdown content.
func SearchResults(rows []model.PlayerSummary) View {
	body := fragment(func(b *builder) {
		if len(rows) == 0 {
			b.raw(`<div class="empty-state search-empty">No players found.</div>`)
			return
		}
		for _, pl := range rows {
			b.link(route.PlayerPath(pl.DisplayName), "search-result-item",
				pl.DisplayName+" ("+strconv.Itoa(pl.Wins)+" Wins)")
		}
	})
	return View{Title: "Search", Status: http.StatusOK, Body: body}
}

// PlayersTable renders the alternate per-player statistics shape.
func PlayersTable(p *model.PlayersPayload) View {
	var rows []model.PlayerStats
	if p != nil {
		rows = p.Players
	}

	body := fragment(func(b *builder) {
		b.raw(`<section class="card" id="players-section">`,
			`<h2 class="section-title">All Players</h2>`)
		if len(rows) == 0 {
			b.raw(`<div class="empty-state">No players found.</div></section>`)
			return
		}
		b.raw(`<table class="players-table"><thead><tr>`,
			`<th>Player</th><th>Wins</th><th>Losses</th><th>Win Rate</th><th>Total Words</th>`,
			`</tr></thead><tbody>`)
		for _, r := range rows {
			b.raw(`<tr><td>`)
			b.link(route.PlayerPath(r.Name), "", r.Name)
			b.raw(`</td><td>`, strconv.Itoa(r.Wins), `</td><td>`, strconv.Itoa(r.Losses), `</td><td>`)
			b.text(decimal.NewFromFloat(r.WinRate).StringFixed(1) + "%")
			b.raw(`</td><td>`, strconv.Itoa(r.TotalWords), `</td></tr>`)
		}
		b.raw(`</tbody></table></section>`)
	})
	return View{Title: "Players", Status: http.StatusOK, Body: body}
}

func playedAt(ts model.Timestamp, layout string) string {
	if ts.IsZero() {
		return "unknown"
	}
	return ts.UTC().Format(layout)
}
