package stopgame

import (
	"strings"

	"github.com/juancabrera0513/stop/internal/dictionary"
	"github.com/juancabrera0513/stop/internal/entity"
)

// Answers of a single character are never worth points, even when the
// dictionary happens to contain a one-letter entry. This rule belongs to
// scoring, not to the dictionary's own validity check.
const minAnswerLen = 2

type scoredEntry struct {
	playerID   string
	category   string
	rawAnswer  string
	normalized string
	isEmpty    bool
	isValid    bool
}

// ScoreRound converts one round's raw answer sets into per-player, per-category
// results and adds each player's round score to their cumulative total.
//
// Status is round- and category-scoped: an answer is valid-unique when its
// normalized form occurs exactly once among the round's valid answers for that
// category, valid-shared when two or more players tie on it. Empty and invalid
// answers never collide with anything. The caller attaches StoppedBy.
func ScoreRound(dict *dictionary.Dictionary, players []*entity.Player, categories []string, letter string, answers map[string]map[string]string) *entity.RoundResult {
	entries := preprocess(dict, players, categories, letter, answers)

	// Frequency of valid normalized forms per category.
	groups := make(map[string]map[string]int)
	for _, entry := range entries {
		if !entry.isValid || entry.normalized == "" {
			continue
		}

		group, ok := groups[entry.category]
		if !ok {
			group = make(map[string]int)
			groups[entry.category] = group
		}
		group[entry.normalized]++
	}

	perCategory := make(map[string]map[string]entity.CategoryResult, len(players))
	roundScores := make(map[string]int, len(players))

	for _, entry := range entries {
		var status string
		switch {
		case entry.isEmpty:
			status = entity.StatusEmpty
		case !entry.isValid:
			status = entity.StatusInvalid
		case groups[entry.category][entry.normalized] > 1:
			status = entity.StatusValidShared
		default:
			status = entity.StatusValidUnique
		}

		points := entity.PointsForStatus(status)

		if perCategory[entry.playerID] == nil {
			perCategory[entry.playerID] = make(map[string]entity.CategoryResult, len(categories))
		}
		perCategory[entry.playerID][entry.category] = entity.CategoryResult{
			Answer:           entry.rawAnswer,
			NormalizedAnswer: entry.normalized,
			Status:           status,
			Points:           points,
		}
		roundScores[entry.playerID] += points
	}

	result := &entity.RoundResult{
		Letter:    letter,
		PerPlayer: make([]entity.PlayerRoundResult, 0, len(players)),
	}

	for _, player := range players {
		result.PerPlayer = append(result.PerPlayer, entity.PlayerRoundResult{
			PlayerID:         player.ID,
			Name:             player.Name,
			RoundScore:       roundScores[player.ID],
			PerCategoryScore: perCategory[player.ID],
		})

		// Cumulative score is append-only: it only ever grows by roundScore.
		player.Score += roundScores[player.ID]
	}

	return result
}

// preprocess trims, normalizes and classifies every (player, category) cell.
// Players absent from the answers map are scored as all-empty; answer-map keys
// that match no player are ignored.
func preprocess(dict *dictionary.Dictionary, players []*entity.Player, categories []string, letter string, answers map[string]map[string]string) []scoredEntry {
	entries := make([]scoredEntry, 0, len(players)*len(categories))

	for _, player := range players {
		playerAnswers := answers[player.ID]

		for _, category := range categories {
			raw := playerAnswers[category]
			trimmed := strings.TrimSpace(raw)
			isEmpty := trimmed == ""

			valid := false
			if !isEmpty && len([]rune(trimmed)) >= minAnswerLen {
				valid = dict.IsValid(letter, category, raw)
			}

			entries = append(entries, scoredEntry{
				playerID:   player.ID,
				category:   category,
				rawAnswer:  raw,
				normalized: dictionary.Normalize(raw),
				isEmpty:    isEmpty,
				isValid:    valid,
			})
		}
	}

	return entries
}
