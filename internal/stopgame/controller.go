package stopgame

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/juancabrera0513/stop/internal/apperror"
	"github.com/juancabrera0513/stop/internal/bot"
	"github.com/juancabrera0513/stop/internal/dictionary"
	"github.com/juancabrera0513/stop/internal/entity"
)

const (
	defaultPlayerName  = "Tú"
	defaultTotalRounds = 5
	defaultBotCount    = 1
)

// Effects receives fire-and-forget notifications on round transitions
// (sound, haptics). Implementations must not block; panics are swallowed by
// the controller so a broken effect can never fail a transition.
type Effects interface {
	RoundStarted(match *entity.Match)
	RoundStopped(match *entity.Match, stoppedBy string)
	MatchFinished(match *entity.Match)
}

// NopEffects is the default no-op Effects implementation.
type NopEffects struct{}

func (NopEffects) RoundStarted(*entity.Match) {}

func (NopEffects) RoundStopped(*entity.Match, string) {}

func (NopEffects) MatchFinished(*entity.Match) {}

// Controller drives the match stage machine
// idle → playing → roundResults → (playing | finished) over an entity.Match.
// All transitions are synchronous; the host owns the wall clock and calls
// PressStop when the advisory bot delay or the timeout elapses.
type Controller struct {
	logger  *slog.Logger
	dict    *dictionary.Dictionary
	bots    *bot.Model
	effects Effects

	roundTimeLimit int
}

func NewController(logger *slog.Logger, dict *dictionary.Dictionary, bots *bot.Model, effects Effects, roundTimeLimit int) *Controller {
	if effects == nil {
		effects = NopEffects{}
	}

	return &Controller{
		logger:         logger.With("component", "stopgame"),
		dict:           dict,
		bots:           bots,
		effects:        effects,
		roundTimeLimit: roundTimeLimit,
	}
}

// StartMatch builds the roster from the config (filling documented defaults)
// and opens round one. Any previous match context is discarded.
func (that *Controller) StartMatch(match *entity.Match, cfg entity.MatchConfig) {
	match.Reset()

	name := strings.TrimSpace(cfg.PlayerName)
	if name == "" {
		name = defaultPlayerName
	}

	rounds := cfg.TotalRounds
	if rounds < 1 {
		rounds = defaultTotalRounds
	}

	difficulty := cfg.Difficulty
	switch difficulty {
	case entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard:
	default:
		difficulty = entity.DifficultyEasy
	}

	botCount := cfg.BotCount
	if botCount < 1 {
		botCount = defaultBotCount
	}

	human := &entity.Player{
		ID:   "human",
		Name: name,
	}

	match.Difficulty = difficulty
	match.TotalRounds = rounds
	match.RoundTimeLimit = that.roundTimeLimit
	match.Categories = entity.DefaultCategories
	match.SoundEnabled = cfg.SoundEnabled
	match.VibrationEnabled = cfg.VibrationEnabled
	match.Players = append([]*entity.Player{human}, makeBots(botCount, difficulty)...)

	that.setupRound(match, 1)
}

// makeBots builds the CPU roster: the first three get fixed pace profiles,
// further ones a random one.
func makeBots(count int, difficulty entity.Difficulty) []*entity.Player {
	baseName := "CPU Fácil"
	switch difficulty {
	case entity.DifficultyHard:
		baseName = "CPU Experto"
	case entity.DifficultyMedium:
		baseName = "CPU"
	}

	speedProfiles := []float64{1.15, 1.0, 0.85}

	bots := make([]*entity.Player, 0, count)
	for i := 0; i < count; i++ {
		speed := 0.8 + rand.Float64()*0.6 //nolint: gosec // gameplay randomness
		if i < len(speedProfiles) {
			speed = speedProfiles[i]
		}

		name := baseName
		if count > 1 {
			name = fmt.Sprintf("%s %d", baseName, i+1)
		}

		bots = append(bots, &entity.Player{
			ID:              fmt.Sprintf("bot-%d", i+1),
			Name:            name,
			IsBot:           true,
			Difficulty:      difficulty,
			SpeedMultiplier: speed,
		})
	}

	return bots
}

// setupRound draws the letter, computes the advisory bot stop delay and clears
// the live answers. The letter is fixed before any answer is accepted.
func (that *Controller) setupRound(match *entity.Match, roundIndex int) {
	letter := GenerateLetter()
	botDelay := that.bots.StopDelay(letter, match.Categories, match.Difficulty, match.RoundTimeLimit)

	match.RoundNumber = roundIndex
	match.Letter = letter
	match.Answers = make(map[string]string)
	match.BotStopAfter = botDelay
	match.Stage = entity.StagePlaying

	that.fire("round_started", func() { that.effects.RoundStarted(match) })

	that.logger.Info("round started",
		"match", match.ID,
		"round", roundIndex,
		"letter", letter,
		"bot_stop_after", botDelay,
	)
}

// PressStop finalizes the live round: captures the human's answers as-is,
// generates each bot's answers conditioned on who stopped and how far into the
// round it happened, scores everything and stores the tagged result. Guarded:
// only the first trigger in a round gets past the playing check.
func (that *Controller) PressStop(match *entity.Match, stoppedBy string) error {
	if stoppedBy == "" {
		stoppedBy = entity.StoppedByHuman
	}

	if err := match.ConfirmStoppable(); err != nil {
		return err
	}

	that.fire("round_stopped", func() { that.effects.RoundStopped(match, stoppedBy) })

	answers := make(map[string]map[string]string, len(match.Players))
	for _, player := range match.Players {
		if !player.IsBot {
			answers[player.ID] = match.Answers
			continue
		}

		speedFactor := that.bots.SpeedFactor(player, stoppedBy)
		answers[player.ID] = that.bots.GenerateAnswers(match.Letter, match.Categories, player.Difficulty, speedFactor)
	}

	result := ScoreRound(that.dict, match.Players, match.Categories, match.Letter, answers)
	result.StoppedBy = stoppedBy

	match.AppendResult(*result)
	match.Answers = nil
	match.Stage = entity.StageRoundResults

	that.logger.Info("round stopped",
		"match", match.ID,
		"round", match.RoundNumber,
		"stopped_by", stoppedBy,
	)

	return nil
}

// AdvanceAfterResults leaves the results screen: next round while rounds
// remain, otherwise the match is finished.
func (that *Controller) AdvanceAfterResults(match *entity.Match) error {
	if !match.IsRoundResults() {
		return apperror.ErrNoRoundResults
	}

	if match.RoundNumber >= match.TotalRounds {
		match.Stage = entity.StageFinished
		that.fire("match_finished", func() { that.effects.MatchFinished(match) })

		that.logger.Info("match finished", "match", match.ID, "rounds", match.RoundNumber)
		return nil
	}

	that.setupRound(match, match.RoundNumber+1)

	return nil
}

// StartSuddenDeath extends a finished match by a single tie-breaker round.
// Allowed only when the final standings are a genuine draw; the match never
// resolves a draw on its own.
func (that *Controller) StartSuddenDeath(match *entity.Match) error {
	if !match.IsFinished() {
		return apperror.ErrNoDrawToResolve
	}

	if _, draw := FinalStandings(match); !draw {
		return apperror.ErrNoDrawToResolve
	}

	match.TotalRounds++
	that.setupRound(match, match.RoundNumber+1)

	return nil
}

// Reset abandons everything, including an in-flight round, without scoring.
func (that *Controller) Reset(match *entity.Match) {
	match.Reset()

	that.logger.Info("match reset", "match", match.ID)
}

// fire runs a side effect without letting it fail the transition.
func (that *Controller) fire(name string, effect func()) {
	defer func() {
		if r := recover(); r != nil {
			that.logger.Error("effect failed", "effect", name, "error", r)
		}
	}()

	effect()
}
