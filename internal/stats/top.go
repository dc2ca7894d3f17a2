package stats

import (
	"sort"

	"github.com/verte-zerg/cogtrain/internal/model"
)

// MostPlayed returns up to n games ordered by session count. Ties keep the
// fixed game order; games never played are omitted.
func MostPlayed(counts map[model.Game]int, n int) []model.Game {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	games := make([]model.Game, 0, len(model.Games))
	for _, g := range model.Games {
		if counts[g] > 0 {
			games = append(games, g)
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return counts[games[i]] > counts[games[j]]
	})
	if n > len(games) {
		n = len(games)
	}
	return games[:n]
}
