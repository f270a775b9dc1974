package render

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/wordtracker/internal/domain/model"
)

func mustString(v View) string {
	s, err := ToString(context.Background(), v.Body)
	So(err, ShouldBeNil)
	return s
}

func TestFormatDuration(t *testing.T) {
	Convey("Given durations in seconds", t, func() {
		So(FormatDuration(125), ShouldEqual, "2m 5s")
		So(FormatDuration(59), ShouldEqual, "0m 59s")
		So(FormatDuration(0), ShouldEqual, "0m 0s")
		So(FormatDuration(3600), ShouldEqual, "60m 0s")
		So(FormatDuration(-5), ShouldEqual, "0m 0s")
	})
}

func TestSortLeaderboard(t *testing.T) {
	Convey("Given an unsorted leaderboard with ties", t, func() {
		rows := []model.PlayerSummary{
			{DisplayName: "Cara", Wins: 3},
			{DisplayName: "Alice", Wins: 7},
			{DisplayName: "Bob", Wins: 3},
			{DisplayName: "Dan", Wins: 9},
		}

		Convey("When sorting", func() {
			got := SortLeaderboard(rows, 10)

			Convey("Then wins descend and ties keep backend order", func() {
				names := make([]string, 0, len(got))
				for _, r := range got {
					names = append(names, r.DisplayName)
				}
				So(names, ShouldResemble, []string{"Dan", "Alice", "Cara", "Bob"})
			})

			Convey("And the input is untouched", func() {
				So(rows[0].DisplayName, ShouldEqual, "Cara")
			})
		})

		Convey("When limiting", func() {
			So(SortLeaderboard(rows, 2), ShouldHaveLength, 2)
			So(SortLeaderboard(rows, 0), ShouldHaveLength, 4)
		})
	})

	Convey("Given more than ten players", t, func() {
		rows := make([]model.PlayerSummary, 15)
		for i := range rows {
			rows[i] = model.PlayerSummary{DisplayName: "p", Wins: i}
		}
		So(SortLeaderboard(rows, DefaultLeaderboardLimit), ShouldHaveLength, 10)
	})
}

func TestHome(t *testing.T) {
	Convey("Given a home payload", t, func() {
		p := &model.HomePayload{
			Leaderboard: []model.PlayerSummary{
				{DisplayName: "Bob", Wins: 2},
				{DisplayName: "Alice Smith", Wins: 5},
			},
			RecentMatches: []model.MatchSummary{
				{ID: "m1", Winner: "Alice Smith", DurationSec: 125,
					PlayedAt: model.Timestamp{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}},
			},
		}

		Convey("When rendering", func() {
			v := Home(p, DefaultLeaderboardLimit)
			out := mustString(v)

			Convey("Then the leader comes first with an encoded link", func() {
				So(v.Status, ShouldEqual, http.StatusOK)
				So(strings.Index(out, "Alice Smith"), ShouldBeLessThan, strings.Index(out, "Bob"))
				So(out, ShouldContainSubstring, `href="/player/Alice%20Smith" data-route`)
				So(out, ShouldContainSubstring, "#1")
			})

			Convey("And recent matches show duration and date", func() {
				So(out, ShouldContainSubstring, `href="/match/m1" data-route`)
				So(out, ShouldContainSubstring, "2m 5s")
				So(out, ShouldContainSubstring, "2024-03-01")
			})
		})
	})

	Convey("Given an empty payload", t, func() {
		out := mustString(Home(&model.HomePayload{}, 10))
		So(out, ShouldContainSubstring, "No leaderboard data available.")
		So(out, ShouldContainSubstring, "No recent matches found.")

		So(mustString(Home(nil, 10)), ShouldContainSubstring, "No leaderboard data available.")
	})

	Convey("Given a match with an unparseable date", t, func() {
		out := mustString(Home(&model.HomePayload{RecentMatches: []model.MatchSummary{{ID: "x"}}}, 10))
		So(out, ShouldContainSubstring, "Played: unknown")
	})
}

func TestPlayer(t *testing.T) {
	Convey("Given Alice's profile", t, func() {
		p := &model.PlayerPayload{
			Profile: &model.PlayerProfile{DisplayName: "Alice", GamesPlayed: 10, Wins: 6, Losses: 4, TotalWords: 340},
			Timeline: []model.TimelineEntry{
				{MatchID: "m9", Result: model.ResultWin, Ago: "2 days ago"},
				{MatchID: "m8", Result: "forfeit", Ago: "3 days ago"},
			},
		}

		Convey("When rendering", func() {
			out := mustString(Player("Alice", p))

			Convey("Then stats and win rate are shown", func() {
				for _, want := range []string{">10<", ">6<", ">4<", ">340<", "60.0%"} {
					So(out, ShouldContainSubstring, want)
				}
			})

			Convey("And results are upper-cased, unknown ones verbatim", func() {
				So(out, ShouldContainSubstring, `match-win">WIN<`)
				So(out, ShouldContainSubstring, `match-forfeit">FORFEIT<`)
			})
		})
	})

	Convey("Given a missing profile", t, func() {
		v := Player("Ghost", &model.PlayerPayload{})
		out := mustString(v)
		So(v.Status, ShouldEqual, http.StatusNotFound)
		So(out, ShouldContainSubstring, "Player Not Found")
		So(out, ShouldContainSubstring, "Ghost")
	})

	Convey("Given a profile with no timeline", t, func() {
		out := mustString(Player("A", &model.PlayerPayload{Profile: &model.PlayerProfile{DisplayName: "A"}}))
		So(out, ShouldContainSubstring, "No match history found for this player.")
		So(out, ShouldContainSubstring, "0.0%")
	})
}

func TestWinRate(t *testing.T) {
	Convey("Given wins and games", t, func() {
		So(WinRate(6, 10), ShouldEqual, "60.0%")
		So(WinRate(2, 3), ShouldEqual, "66.7%")
		So(WinRate(1, 3), ShouldEqual, "33.3%")
		So(WinRate(0, 0), ShouldEqual, "0.0%")
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a complete match", t, func() {
		m := &model.MatchDetail{
			ID: "m1", Winner: "Alice", DurationSec: 59,
			Players: []model.MatchPlayer{
				{Name: "Alice", Result: model.ResultWin, WordCount: 2, Words: []string{"cat", "dog"}},
				{Name: "Bob", Result: model.ResultLoss, WordCount: 0, Words: nil},
			},
		}

		Convey("When rendering", func() {
			v := Match("m1", m)
			out := mustString(v)

			Convey("Then players, words and toggles are present", func() {
				So(out, ShouldContainSubstring, "0m 59s")
				So(out, ShouldContainSubstring, `card player-card winner`)
				So(out, ShouldContainSubstring, `data-player-words="Alice"`)
				So(out, ShouldContainSubstring, `id="words-Alice"`)
				So(out, ShouldContainSubstring, "<li>cat</li>")
				So(out, ShouldContainSubstring, "Show Words Used (2)")
				So(out, ShouldContainSubstring, "Show Words Used (0)")
			})

			Convey("And the view asks for the toggle behaviour", func() {
				So(v.Behaviors, ShouldResemble, []Behavior{WordListToggle})
			})
		})
	})

	Convey("Given incomplete match data", t, func() {
		for _, m := range []*model.MatchDetail{nil, {ID: "m2"}, {Players: []model.MatchPlayer{}}} {
			v := Match("m2", m)
			So(mustString(v), ShouldContainSubstring, "Match Data Incomplete")
			So(v.Behaviors, ShouldBeEmpty)
		}
	})

	Convey("Given toggle labels", t, func() {
		So(WordToggleLabel(true, 3), ShouldEqual, "Hide Words Used (3)")
		So(WordToggleLabel(false, 3), ShouldEqual, "Show Words Used (3)")
	})
}

func TestEscaping(t *testing.T) {
	Convey("Given hostile names", t, func() {
		evil := `<script>alert("x")</script>`
		out := mustString(SearchResults([]model.PlayerSummary{{DisplayName: evil, Wins: 1}}))

		Convey("Then they are escaped in text and links", func() {
			So(out, ShouldNotContainSubstring, "<script>")
			So(out, ShouldContainSubstring, "&lt;script&gt;")
			So(out, ShouldContainSubstring, `href="/player/%3Cscript%3Ealert%28%22x%22%29%3C%2Fscript%3E"`)
		})

		Convey("And match ids are escaped in placeholders", func() {
			So(mustString(Match(evil, nil)), ShouldNotContainSubstring, "<script>")
		})
	})
}

func TestSearchResults(t *testing.T) {
	Convey("Given no results", t, func() {
		So(mustString(SearchResults(nil)), ShouldContainSubstring, "No players found.")
	})

	Convey("Given results", t, func() {
		out := mustString(SearchResults([]model.PlayerSummary{{DisplayName: "Alice", Wins: 3}}))
		So(out, ShouldContainSubstring, `class="search-result-item"`)
		So(out, ShouldContainSubstring, "Alice (3 Wins)")
	})
}

func TestPlayersTable(t *testing.T) {
	Convey("Given the alternate players shape", t, func() {
		out := mustString(PlayersTable(&model.PlayersPayload{Players: []model.PlayerStats{
			{Name: "Alice", Wins: 6, Losses: 4, WinRate: 60, TotalWords: 340},
		}}))
		So(out, ShouldContainSubstring, "<td>6</td>")
		So(out, ShouldContainSubstring, "60.0%")
		So(out, ShouldContainSubstring, `href="/player/Alice"`)

		So(mustString(PlayersTable(nil)), ShouldContainSubstring, "No players found.")
	})
}

func TestStates(t *testing.T) {
	Convey("Given the state views", t, func() {
		So(mustString(Loading()), ShouldContainSubstring, "Loading")
		So(mustString(Unavailable()), ShouldContainSubstring, "waking up")
		So(Unavailable().Status, ShouldEqual, http.StatusServiceUnavailable)
		So(mustString(NotFound()), ShouldContainSubstring, "404 Not Found")
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestLayout(t *testing.T) {
	Convey("Given a view in the page shell", t, func() {
		page := Layout(Home(nil, 10), LayoutOptions{SiteName: "Tracker", ClientScript: true})
		out, err := ToString(context.Background(), page)

		Convey("Then the content region wraps the view", func() {
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "<!doctype html>")
			So(out, ShouldContainSubstring, "<title>Leaderboard | Tracker</title>")
			So(out, ShouldContainSubstring, `<main id="content" class="content"><section`)
			So(out, ShouldContainSubstring, `id="search-input"`)
			So(out, ShouldContainSubstring, "/static/main.wasm")
		})

		Convey("And the backend URL is published when set", func() {
			out, _ := ToString(context.Background(), Layout(NotFound(), LayoutOptions{BackendURL: "https://api.example.com"}))
			So(out, ShouldContainSubstring, `<meta name="tracker-backend-url" content="https://api.example.com"/>`)
		})

		Convey("And the client script can be left out", func() {
			out, _ := ToString(context.Background(), Layout(NotFound(), LayoutOptions{}))
			So(out, ShouldNotContainSubstring, "main.wasm")
			So(out, ShouldContainSubstring, "Word Tracker")
		})

		Convey("And writer failures are returned", func() {
			So(page.Render(context.Background(), failingWriter{}), ShouldNotBeNil)
		})
	})
}
