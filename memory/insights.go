package memory

import (
	"sort"

	"github.com/meghna-1234/game-strategy-ai/core"
)

const topGamesLimit = 3

// SystemInsights aggregates statistics across every entry. The average success
// rate is an unweighted mean over entries; entries without outcomes count as 0.
func (s *Store) SystemInsights() core.Insights {
	entries := s.entries()

	ins := core.Insights{TotalUsers: len(entries), PerGame: map[string]core.GameInsight{}, TopGames: []string{}}
	var rateSum float64
	for _, m := range entries {
		total, rate := m.Stats()
		ins.TotalStrategiesAnalyzed += total
		rateSum += rate

		g := ins.PerGame[m.GameType]
		g.Users++
		g.TotalStrategies += total
		ins.PerGame[m.GameType] = g
	}
	if len(entries) > 0 {
		ins.AverageSuccessRate = rateSum / float64(len(entries))
	}

	games := make([]string, 0, len(ins.PerGame))
	for name := range ins.PerGame {
		games = append(games, name)
	}
	sort.Slice(games, func(i, j int) bool {
		ui, uj := ins.PerGame[games[i]].Users, ins.PerGame[games[j]].Users
		if ui != uj {
			return ui > uj
		}
		return games[i] < games[j]
	})
	if len(games) > topGamesLimit {
		games = games[:topGamesLimit]
	}
	ins.TopGames = games
	return ins
}
