package stopgame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juancabrera0513/stop/internal/dictionary"
	"github.com/juancabrera0513/stop/internal/entity"
)

func scoringDictionary() *dictionary.Dictionary {
	return dictionary.New(map[string][]string{
		"Animal": {"Mono", "Murciélago", "Mapache"},
		"País":   {"México", "Mongolia"},
	})
}

func twoPlayers() []*entity.Player {
	return []*entity.Player{
		{ID: "h", Name: "Humano"},
		{ID: "b", Name: "CPU", IsBot: true, Difficulty: entity.DifficultyEasy},
	}
}

func TestScoreRound_SharedAnswers(t *testing.T) {
	// Given: both players wrote the same word, differing only in case
	players := twoPlayers()
	answers := map[string]map[string]string{
		"h": {"Animal": "Mono"},
		"b": {"Animal": "mono"},
	}

	// When: the round is scored
	result := ScoreRound(scoringDictionary(), players, []string{"Animal"}, "M", answers)

	// Then: both answers are valid-shared and worth five points
	require.Len(t, result.PerPlayer, 2)
	for _, entry := range result.PerPlayer {
		cell := entry.PerCategoryScore["Animal"]
		assert.Equal(t, entity.StatusValidShared, cell.Status)
		assert.Equal(t, entity.PointsShared, cell.Points)
		assert.Equal(t, "mono", cell.NormalizedAnswer)
		assert.Equal(t, entity.PointsShared, entry.RoundScore)
	}

	// Then: cumulative scores were updated
	assert.Equal(t, 5, players[0].Score)
	assert.Equal(t, 5, players[1].Score)
}

func TestScoreRound_UniqueAgainstEmpty(t *testing.T) {
	// Given: the bot left the category blank
	players := twoPlayers()
	answers := map[string]map[string]string{
		"h": {"Animal": "Mono"},
		"b": {"Animal": ""},
	}

	// When: the round is scored
	result := ScoreRound(scoringDictionary(), players, []string{"Animal"}, "M", answers)

	// Then: the human is valid-unique, the bot empty
	human := result.PerPlayer[0].PerCategoryScore["Animal"]
	bot := result.PerPlayer[1].PerCategoryScore["Animal"]

	assert.Equal(t, entity.StatusValidUnique, human.Status)
	assert.Equal(t, entity.PointsUnique, human.Points)
	assert.Equal(t, entity.StatusEmpty, bot.Status)
	assert.Equal(t, entity.PointsNone, bot.Points)

	assert.Equal(t, 10, players[0].Score)
	assert.Equal(t, 0, players[1].Score)
}

func TestScoreRound_SingleCharacterIsAlwaysInvalid(t *testing.T) {
	// Given: a one-letter answer, regardless of dictionary content
	players := twoPlayers()
	answers := map[string]map[string]string{
		"h": {"Animal": "M"},
	}

	result := ScoreRound(scoringDictionary(), players, []string{"Animal"}, "M", answers)

	cell := result.PerPlayer[0].PerCategoryScore["Animal"]
	assert.Equal(t, entity.StatusInvalid, cell.Status)
	assert.Equal(t, entity.PointsNone, cell.Points)
}

func TestScoreRound_UncuratedCategoryFallsBackToLetterRule(t *testing.T) {
	// Given: a category with no dictionary list at all
	players := twoPlayers()
	answers := map[string]map[string]string{
		"h": {"Cosa": "Xyz"},
		"b": {"Cosa": "Abc"},
	}

	result := ScoreRound(scoringDictionary(), players, []string{"Cosa"}, "X", answers)

	// Then: the letter-matching answer is valid-unique, the other invalid
	human := result.PerPlayer[0].PerCategoryScore["Cosa"]
	bot := result.PerPlayer[1].PerCategoryScore["Cosa"]

	assert.Equal(t, entity.StatusValidUnique, human.Status)
	assert.Equal(t, entity.StatusInvalid, bot.Status)
}

func TestScoreRound_InvalidAnswersNeverCollide(t *testing.T) {
	// Given: both players wrote the same invalid word
	players := twoPlayers()
	answers := map[string]map[string]string{
		"h": {"Animal": "Mapachito"},
		"b": {"Animal": "mapachito"},
	}

	result := ScoreRound(scoringDictionary(), players, []string{"Animal"}, "M", answers)

	// Then: both stay invalid, sharing no points
	for _, entry := range result.PerPlayer {
		cell := entry.PerCategoryScore["Animal"]
		assert.Equal(t, entity.StatusInvalid, cell.Status)
		assert.Equal(t, entity.PointsNone, cell.Points)
	}
}

func TestScoreRound_MissingAndUnknownAnswerSets(t *testing.T) {
	players := twoPlayers()

	// Given: the bot has no answer map at all and a stray unknown id appears
	answers := map[string]map[string]string{
		"h":        {"Animal": "Mono"},
		"fantasma": {"Animal": "Mono"},
	}

	result := ScoreRound(scoringDictionary(), players, []string{"Animal", "País"}, "M", answers)

	// Then: only roster players are scored
	require.Len(t, result.PerPlayer, 2)

	// Then: the unknown id never reached the duplicate count
	human := result.PerPlayer[0].PerCategoryScore["Animal"]
	assert.Equal(t, entity.StatusValidUnique, human.Status)

	// Then: the bot's missing categories score as empty
	bot := result.PerPlayer[1]
	assert.Equal(t, entity.StatusEmpty, bot.PerCategoryScore["Animal"].Status)
	assert.Equal(t, entity.StatusEmpty, bot.PerCategoryScore["País"].Status)
	assert.Equal(t, 0, bot.RoundScore)
}

func TestScoreRound_RoundScoreIsSumOfPoints(t *testing.T) {
	players := twoPlayers()
	answers := map[string]map[string]string{
		"h": {"Animal": "Mono", "País": "México"},
		"b": {"Animal": "mono", "País": ""},
	}

	result := ScoreRound(scoringDictionary(), players, []string{"Animal", "País"}, "M", answers)

	// Then: shared five plus unique ten for the human
	human := result.PerPlayer[0]
	assert.Equal(t, 15, human.RoundScore)

	sum := 0
	for _, cell := range human.PerCategoryScore {
		sum += cell.Points
	}
	assert.Equal(t, human.RoundScore, sum)
}

func TestScoreRound_CumulativeScoreIsMonotonic(t *testing.T) {
	players := twoPlayers()
	dict := scoringDictionary()
	categories := []string{"Animal"}

	answers := map[string]map[string]string{
		"h": {"Animal": "Mono"},
		"b": {"Animal": "Murciélago"},
	}

	// When: scoring three rounds in a row
	previous := map[string]int{"h": 0, "b": 0}
	for round := 0; round < 3; round++ {
		result := ScoreRound(dict, players, categories, "M", answers)

		// Then: score after N equals score after N-1 plus roundScore(N)
		for i, player := range players {
			roundScore := result.PerPlayer[i].RoundScore
			require.Equal(t, previous[player.ID]+roundScore, player.Score)
			require.GreaterOrEqual(t, player.Score, previous[player.ID])
			previous[player.ID] = player.Score
		}
	}
}
