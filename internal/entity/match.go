package entity

import (
	"fmt"

	"github.com/juancabrera0513/stop/internal/apperror"
)

const (
	StageIdle         = "idle"
	StagePlaying      = "playing"
	StageRoundResults = "roundResults"
	StageFinished     = "finished"
)

// DefaultCategories - the canonical ordered category list shared by all players.
// Order matters for display only, never for scoring.
var DefaultCategories = []string{
	"Nombre",
	"Apellido",
	"País",
	"Ciudad",
	"Animal",
	"Fruta/Comida",
	"Color",
}

// MatchConfig is what the host supplies to start a match. Zero values fall back
// to the documented defaults.
type MatchConfig struct {
	PlayerName       string     `json:"player_name"`
	TotalRounds      int        `json:"total_rounds"`
	Difficulty       Difficulty `json:"difficulty"`
	BotCount         int        `json:"bot_count"`
	SoundEnabled     bool       `json:"sound_enabled"`
	VibrationEnabled bool       `json:"vibration_enabled"`
}

// Match is the state-plus-context of one running match: the stage machine
// idle → playing → roundResults → (playing | finished) with everything the
// transitions read and write.
type Match struct {
	ID             string     `json:"id"`
	Stage          string     `json:"stage"`
	Difficulty     Difficulty `json:"difficulty"`
	RoundNumber    int        `json:"round_number"`
	TotalRounds    int        `json:"total_rounds"`
	RoundTimeLimit int        `json:"round_time_limit"`
	Categories     []string   `json:"categories"`

	// Current-round working state, reset by every round setup.
	Letter       string            `json:"letter,omitempty"`
	Answers      map[string]string `json:"answers,omitempty"`
	BotStopAfter int               `json:"bot_stop_after,omitempty"`

	Players []*Player     `json:"players"`
	History []RoundResult `json:"history"`

	SoundEnabled     bool `json:"sound_enabled"`
	VibrationEnabled bool `json:"vibration_enabled"`
}

func NewMatch(id string) *Match {
	return &Match{
		ID:         id,
		Stage:      StageIdle,
		Categories: DefaultCategories,
	}
}

func (that *Match) IsIdle() bool {
	return that.Stage == StageIdle
}

func (that *Match) IsPlaying() bool {
	return that.Stage == StagePlaying
}

func (that *Match) IsRoundResults() bool {
	return that.Stage == StageRoundResults
}

func (that *Match) IsFinished() bool {
	return that.Stage == StageFinished
}

// HumanPlayer returns the single non-bot participant, or nil before setup.
func (that *Match) HumanPlayer() *Player {
	for _, player := range that.Players {
		if !player.IsBot {
			return player
		}
	}
	return nil
}

func (that *Match) Bots() []*Player {
	bots := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if player.IsBot {
			bots = append(bots, player)
		}
	}
	return bots
}

// ConfirmStoppable - guards a STOP trigger: the round must be live and the
// match fully initialized (letter drawn, one human, at least one bot).
func (that *Match) ConfirmStoppable() error {
	switch {
	case that.IsIdle():
		return apperror.ErrMatchNotStarted
	case that.IsFinished():
		return apperror.ErrMatchFinished
	case !that.IsPlaying():
		return apperror.ErrRoundNotActive
	}

	if that.Letter == "" || that.HumanPlayer() == nil || len(that.Bots()) == 0 {
		return apperror.ErrMatchIncomplete
	}

	return nil
}

// UpdateAnswer records the human's live input for one category; ignored
// outside a live round so late keystrokes cannot touch a scored round.
func (that *Match) UpdateAnswer(category, text string) {
	if !that.IsPlaying() {
		return
	}

	if that.Answers == nil {
		that.Answers = make(map[string]string)
	}
	that.Answers[category] = text
}

// AppendResult stores a finalized round; results are immutable afterwards.
func (that *Match) AppendResult(result RoundResult) {
	that.History = append(that.History, result)
}

// HistoryTotals recomputes each player's total from the round history. It must
// agree with the cumulative Score fields; the controller uses it as the source
// for final standings.
func (that *Match) HistoryTotals() map[string]int {
	totals := make(map[string]int, len(that.Players))
	for _, player := range that.Players {
		totals[player.ID] = 0
	}

	for _, round := range that.History {
		for _, entry := range round.PerPlayer {
			totals[entry.PlayerID] += entry.RoundScore
		}
	}

	return totals
}

// Reset abandons any in-flight round without scoring it and returns the match
// to idle with an empty context.
func (that *Match) Reset() {
	that.Stage = StageIdle
	that.Difficulty = ""
	that.RoundNumber = 0
	that.TotalRounds = 0
	that.Letter = ""
	that.Answers = nil
	that.BotStopAfter = 0
	that.Players = nil
	that.History = nil
}

func (that *Match) String() string {
	return fmt.Sprintf("match %s [%s] round %d/%d", that.ID, that.Stage, that.RoundNumber, that.TotalRounds)
}
