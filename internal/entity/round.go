package entity

// Answer status for one (player, category) cell of a finished round.
const (
	StatusEmpty       = "empty"
	StatusInvalid     = "invalid"
	StatusValidUnique = "valid-unique"
	StatusValidShared = "valid-shared"
)

// Who ended the round.
const (
	StoppedByHuman = "human"
	StoppedByBot   = "bot"
	StoppedByTime  = "time"
)

const (
	PointsUnique = 10
	PointsShared = 5
	PointsNone   = 0
)

// PointsForStatus - the fixed status→points table; there is no partial credit.
func PointsForStatus(status string) int {
	switch status {
	case StatusValidUnique:
		return PointsUnique
	case StatusValidShared:
		return PointsShared
	default:
		return PointsNone
	}
}

// CategoryResult holds one player's scored answer for one category.
type CategoryResult struct {
	Answer           string `json:"answer"`
	NormalizedAnswer string `json:"normalized_answer"`
	Status           string `json:"status"`
	Points           int    `json:"points"`
}

// PlayerRoundResult is one player's line in a round result, in player order.
type PlayerRoundResult struct {
	PlayerID         string                    `json:"player_id"`
	Name             string                    `json:"name"`
	RoundScore       int                       `json:"round_score"`
	PerCategoryScore map[string]CategoryResult `json:"per_category_score"`
}

// RoundResult is immutable once appended to a match's history.
type RoundResult struct {
	Letter    string              `json:"letter"`
	StoppedBy string              `json:"stopped_by"`
	PerPlayer []PlayerRoundResult `json:"per_player"`
}
