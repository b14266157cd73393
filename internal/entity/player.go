package entity

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SpeedMultiplier - per-difficulty pace factor shared by the bot model and the
// match setup: hard bots play faster, easy bots slower.
func (that Difficulty) SpeedMultiplier() float64 {
	switch that {
	case DifficultyHard:
		return 1.15
	case DifficultyMedium:
		return 1.0
	default:
		return 0.85
	}
}

type Player struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Score           int        `json:"score"`
	IsBot           bool       `json:"is_bot,omitempty"`
	Difficulty      Difficulty `json:"difficulty,omitempty"`
	SpeedMultiplier float64    `json:"speed_multiplier,omitempty"`
}
