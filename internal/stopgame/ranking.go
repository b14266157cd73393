package stopgame

import (
	"sort"

	"github.com/juancabrera0513/stop/internal/entity"
)

// Standing is one row of the end-of-match ranking. Ranking is presentation
// only; it never feeds back into scoring.
type Standing struct {
	PlayerID     string `json:"player_id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	RoundsWon    int    `json:"rounds_won"`
	BestRound    int    `json:"best_round"`
	ValidAnswers int    `json:"valid_answers"`
}

// FinalStandings ranks players by cumulative score, then rounds won (a round
// is won by every player who reached its single highest round score), then
// best single-round score, then count of answers that earned points. The
// returned draw flag is true when the top two rows tie on all four keys: that
// is a genuine draw the match does not auto-resolve — the host may offer a
// sudden-death round instead.
func FinalStandings(match *entity.Match) ([]Standing, bool) {
	standings := make([]Standing, 0, len(match.Players))

	roundsWon, bestRound, validAnswers := historyStats(match)

	for _, player := range match.Players {
		standings = append(standings, Standing{
			PlayerID:     player.ID,
			Name:         player.Name,
			Score:        player.Score,
			RoundsWon:    roundsWon[player.ID],
			BestRound:    bestRound[player.ID],
			ValidAnswers: validAnswers[player.ID],
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RoundsWon != b.RoundsWon {
			return a.RoundsWon > b.RoundsWon
		}
		if a.BestRound != b.BestRound {
			return a.BestRound > b.BestRound
		}
		return a.ValidAnswers > b.ValidAnswers
	})

	draw := len(standings) >= 2 && tiedOnAllKeys(standings[0], standings[1])

	return standings, draw
}

func tiedOnAllKeys(a, b Standing) bool {
	return a.Score == b.Score &&
		a.RoundsWon == b.RoundsWon &&
		a.BestRound == b.BestRound &&
		a.ValidAnswers == b.ValidAnswers
}

func historyStats(match *entity.Match) (roundsWon, bestRound, validAnswers map[string]int) {
	roundsWon = make(map[string]int)
	bestRound = make(map[string]int)
	validAnswers = make(map[string]int)

	for _, round := range match.History {
		top := 0
		for _, entry := range round.PerPlayer {
			if entry.RoundScore > top {
				top = entry.RoundScore
			}
		}

		for _, entry := range round.PerPlayer {
			if entry.RoundScore == top && top > 0 {
				roundsWon[entry.PlayerID]++
			}
			if entry.RoundScore > bestRound[entry.PlayerID] {
				bestRound[entry.PlayerID] = entry.RoundScore
			}
			for _, cell := range entry.PerCategoryScore {
				if cell.Points > 0 {
					validAnswers[entry.PlayerID]++
				}
			}
		}
	}

	return roundsWon, bestRound, validAnswers
}
