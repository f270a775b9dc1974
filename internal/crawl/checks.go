package crawl

import (
	"fmt"

	"github.com/okian/wordtracker/internal/domain/model"
)

// checkLeaderboard verifies wins never increase down the leaderboard.
func (c *Crawler) checkLeaderboard(rows []model.PlayerSummary) {
	for i := 1; i < len(rows); i++ {
		if rows[i].Wins > rows[i-1].Wins {
			c.record(CheckLeaderboardSorted, "leaderboard", false,
				fmt.Sprintf("entry %d (%s, %d wins) outranks entry %d (%s, %d wins)",
					i, rows[i].DisplayName, rows[i].Wins, i-1, rows[i-1].DisplayName, rows[i-1].Wins))
			return
		}
	}
	c.record(CheckLeaderboardSorted, "leaderboard", true, "")
}

// checkPlayer verifies the profile exists, its games add up and, when the
// players list knows the player, that both shapes agree.
func (c *Crawler) checkPlayer(name string, p *model.PlayerPayload, stats *model.PlayerStats) {
	if p == nil || p.Profile == nil {
		c.record(CheckProfileFound, name, false, "profile missing")
		return
	}
	c.record(CheckProfileFound, name, true, "")

	prof := p.Profile
	c.record(CheckGamesConsistent, name, prof.Consistent(),
		fmt.Sprintf("games_played %d != wins %d + losses %d", prof.GamesPlayed, prof.Wins, prof.Losses))

	if stats == nil {
		return
	}
	agree := stats.Wins == prof.Wins && stats.Losses == prof.Losses && stats.TotalWords == prof.TotalWords
	c.record(CheckPlayersConsistent, name, agree,
		fmt.Sprintf("players list has %d/%d/%d, profile has %d/%d/%d (wins/losses/words)",
			stats.Wins, stats.Losses, stats.TotalWords, prof.Wins, prof.Losses, prof.TotalWords))
}

// checkMatch verifies the match is renderable and its winner took part.
func (c *Crawler) checkMatch(id string, m *model.MatchDetail) {
	if m == nil || !m.Complete() {
		c.record(CheckMatchComplete, id, false, "id or players missing")
		return
	}
	c.record(CheckMatchComplete, id, true, "")

	if m.Winner == "" {
		return
	}
	var found bool
	for _, p := range m.Players {
		if p.Name == m.Winner {
			found = true
			break
		}
	}
	c.record(CheckMatchWinner, id, found, fmt.Sprintf("winner %q is not a participant", m.Winner))
}
