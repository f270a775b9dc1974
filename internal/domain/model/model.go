// Package model contains the read-only view models decoded from the tracker API.
package model

import (
	"strings"
)

// Result is the outcome of a match for one player.
// Unknown values are kept verbatim; the backend is authoritative.
type Result string

// Known results.
const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Label returns the upper-cased form used in badges.
func (r Result) Label() string {
	return strings.ToUpper(string(r))
}

// PlayerSummary is a leaderboard or search row.
type PlayerSummary struct {
	DisplayName string `json:"display_name"`
	Wins        int    `json:"wins"`
}

// MatchSummary is a row of the recent matches list.
type MatchSummary struct {
	ID          string    `json:"id"`
	Winner      string    `json:"winner"`
	DurationSec int       `json:"duration_sec"`
	PlayedAt    Timestamp `json:"played_at"`
}

// HomePayload is the body of GET /.
type HomePayload struct {
	Leaderboard   []PlayerSummary `json:"leaderboard"`
	RecentMatches []MatchSummary  `json:"recent_matches"`
}

// PlayerProfile holds lifetime stats. GamesPlayed is expected to equal
// Wins+Losses but the client never enforces it.
type PlayerProfile struct {
	DisplayName string `json:"display_name"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	TotalWords  int    `json:"total_words"`
}

// Consistent reports whether GamesPlayed equals Wins+Losses.
func (p PlayerProfile) Consistent() bool {
	return p.GamesPlayed == p.Wins+p.Losses
}

// TimelineEntry is one match in a player's history.
type TimelineEntry struct {
	MatchID string `json:"match_id"`
	Result  Result `json:"result"`
	Ago     string `json:"ago"`
}

// PlayerPayload is the body of GET /player/{name}. Profile is nil when the
// backend does not know the player.
type PlayerPayload struct {
	Profile  *PlayerProfile  `json:"profile"`
	Timeline []TimelineEntry `json:"timeline"`
}

// MatchPlayer is one participant of a match.
type MatchPlayer struct {
	Name      string   `json:"name"`
	Result    Result   `json:"result"`
	WordCount int      `json:"word_count"`
	Words     []string `json:"words"`
}

// MatchDetail is the body of GET /match/{id}. Players is nil when the
// backend omitted it, which views treat as incomplete data.
type MatchDetail struct {
	ID          string        `json:"id"`
	Winner      string        `json:"winner"`
	DurationSec int           `json:"duration_sec"`
	PlayedAt    Timestamp     `json:"played_at"`
	Players     []MatchPlayer `json:"players"`
}

// Complete reports whether the fields every match view needs are present.
func (m MatchDetail) Complete() bool {
	return m.ID != "" && m.Players != nil
}

// PlayerStats is a row of the alternate GET /api/players shape.
type PlayerStats struct {
	Name       string  `json:"name"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"win_rate"`
	TotalWords int     `json:"total_words"`
}

// PlayersPayload is the body of GET /api/players.
type PlayersPayload struct {
	Players []PlayerStats `json:"players"`
}
