package bot

import (
	"math"
	"math/rand"

	"github.com/juancabrera0513/stop/internal/dictionary"
	"github.com/juancabrera0513/stop/internal/entity"
)

// Fraction-of-round windows from which a bot draws its advisory stop moment.
// Harder bots tend to call STOP earlier.
var stopWindows = map[entity.Difficulty][2]float64{
	entity.DifficultyHard:   {0.30, 0.60},
	entity.DifficultyMedium: {0.45, 0.75},
	entity.DifficultyEasy:   {0.60, 0.90},
}

// Base chance that a bot attempts an answer for a category, before pace.
var baseAnswerChance = map[entity.Difficulty]float64{
	entity.DifficultyHard:   0.90,
	entity.DifficultyMedium: 0.75,
	entity.DifficultyEasy:   0.60,
}

const (
	minSpeedFactor = 0.2
	maxSpeedFactor = 1.4

	// Whole-round failure streak: the bot "tilts" and blanks everything
	// past its first answered category.
	tiltChance = 0.05
)

// Model simulates a non-deterministic but difficulty-consistent opponent.
// It never fails: missing words or unknown categories degrade to blanks.
type Model struct {
	dict *dictionary.Dictionary
}

func NewModel(dict *dictionary.Dictionary) *Model {
	return &Model{dict: dict}
}

// StopDelay - in how many seconds this bot would call STOP, drawn uniformly
// from the difficulty window over the round time limit. The value is advisory:
// the host owns the wall clock and fires the actual STOP.
// Letter and categories are unused for now but kept for future pacing logic.
func (that *Model) StopDelay(_ string, _ []string, difficulty entity.Difficulty, roundTimeLimit int) int {
	minDelay, maxDelay := delayWindow(difficulty, roundTimeLimit)

	return randomInt(minDelay, maxDelay)
}

func delayWindow(difficulty entity.Difficulty, roundTimeLimit int) (int, int) {
	window, ok := stopWindows[difficulty]
	if !ok {
		window = stopWindows[entity.DifficultyEasy]
	}

	minDelay := int(math.Floor(float64(roundTimeLimit) * window[0]))
	maxDelay := int(math.Floor(float64(roundTimeLimit) * window[1]))

	if minDelay < 3 {
		minDelay = 3
	}
	if maxDelay > roundTimeLimit-1 {
		maxDelay = roundTimeLimit - 1
	}
	if maxDelay <= minDelay {
		maxDelay = minDelay + 2
	}

	return minDelay, maxDelay
}

// GenerateAnswers produces exactly one answer per category, empty string
// meaning "the bot left it blank". speedFactor represents how much of the
// round the bot effectively had before the STOP.
func (that *Model) GenerateAnswers(letter string, categories []string, difficulty entity.Difficulty, speedFactor float64) map[string]string {
	answers := make(map[string]string, len(categories))

	globalChance := baseAnswerChance[difficulty]
	if globalChance == 0 {
		globalChance = baseAnswerChance[entity.DifficultyEasy]
	}
	globalChance *= difficulty.SpeedMultiplier() * speedFactor
	globalChance = clamp(globalChance, 0.1, 1.0)

	for _, category := range categories {
		jitter := 0.9 + rand.Float64()*0.3 //nolint: gosec // gameplay randomness
		chance := clamp(globalChance*jitter, 0, 1)

		if rand.Float64() < chance { //nolint: gosec // gameplay randomness
			answers[category] = that.dict.RandomWordStartingWith(category, letter, difficulty)
		} else {
			answers[category] = ""
		}
	}

	if rand.Float64() < tiltChance { //nolint: gosec // gameplay randomness
		for i, category := range categories {
			if i > 0 {
				answers[category] = ""
			}
		}
	}

	return answers
}

// SpeedFactor derives a bot's effective round progress from who ended the
// round: a fast human STOP must not let every bot look as if it had the whole
// round, while a timeout grants full progress.
func (that *Model) SpeedFactor(player *entity.Player, stoppedBy string) float64 {
	var stopProgress float64

	switch stoppedBy {
	case entity.StoppedByHuman:
		stopProgress = 0.3 + rand.Float64()*0.4 //nolint: gosec // gameplay randomness
	case entity.StoppedByBot:
		stopProgress = 0.6 + rand.Float64()*0.35 //nolint: gosec // gameplay randomness
	case entity.StoppedByTime:
		stopProgress = 1.0
	default:
		stopProgress = 0.8
	}

	baseSpeed := player.SpeedMultiplier
	if baseSpeed == 0 {
		baseSpeed = 1.0
	}

	jitter := 0.9 + rand.Float64()*0.3 //nolint: gosec // gameplay randomness

	factor := baseSpeed * player.Difficulty.SpeedMultiplier() * stopProgress * jitter

	return clamp(factor, minSpeedFactor, maxSpeedFactor)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func randomInt(low, high int) int {
	if high <= low {
		return low
	}
	return low + rand.Intn(high-low+1) //nolint: gosec // gameplay randomness
}
