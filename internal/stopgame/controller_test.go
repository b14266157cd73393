package stopgame

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juancabrera0513/stop/internal/apperror"
	"github.com/juancabrera0513/stop/internal/bot"
	"github.com/juancabrera0513/stop/internal/entity"
)

func testController(effects Effects) *Controller {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dict := scoringDictionary()

	return NewController(logger, dict, bot.NewModel(dict), effects, 45)
}

func startedMatch(t *testing.T, controller *Controller, cfg entity.MatchConfig) *entity.Match {
	t.Helper()

	match := entity.NewMatch("m1")
	controller.StartMatch(match, cfg)

	return match
}

func TestController_StartMatch(t *testing.T) {
	controller := testController(nil)

	t.Run("Defaults are applied to an empty config", func(t *testing.T) {
		// When: starting with a blank config
		match := startedMatch(t, controller, entity.MatchConfig{})

		// Then: round one is live with the documented defaults
		require.Equal(t, entity.StagePlaying, match.Stage)
		assert.Equal(t, 1, match.RoundNumber)
		assert.Equal(t, 5, match.TotalRounds)
		assert.Equal(t, entity.DifficultyEasy, match.Difficulty)
		assert.Equal(t, 45, match.RoundTimeLimit)

		// Then: one human with the placeholder name and one bot
		human := match.HumanPlayer()
		require.NotNil(t, human)
		assert.Equal(t, "Tú", human.Name)
		require.Len(t, match.Bots(), 1)
	})

	t.Run("Config values are honored", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{
			PlayerName:  "  Juan  ",
			TotalRounds: 3,
			Difficulty:  entity.DifficultyHard,
			BotCount:    3,
		})

		assert.Equal(t, "Juan", match.HumanPlayer().Name)
		assert.Equal(t, 3, match.TotalRounds)
		assert.Equal(t, entity.DifficultyHard, match.Difficulty)

		bots := match.Bots()
		require.Len(t, bots, 3)
		for _, botPlayer := range bots {
			assert.Equal(t, entity.DifficultyHard, botPlayer.Difficulty)
			assert.NotZero(t, botPlayer.SpeedMultiplier)
			assert.Contains(t, botPlayer.Name, "CPU Experto")
		}
	})

	t.Run("Round setup draws a letter and an advisory bot delay", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{})

		require.Len(t, []rune(match.Letter), 1)
		assert.GreaterOrEqual(t, match.BotStopAfter, 3)
		assert.LessOrEqual(t, match.BotStopAfter, 44)
		assert.Empty(t, match.Answers)
	})
}

func TestController_PressStop(t *testing.T) {
	controller := testController(nil)

	t.Run("Finalizes the round and stores the tagged result", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{})
		match.UpdateAnswer("Animal", "Mono")

		// When: the human presses STOP
		err := controller.PressStop(match, entity.StoppedByHuman)

		// Then: the match moved to the results stage with one history entry
		require.NoError(t, err)
		assert.Equal(t, entity.StageRoundResults, match.Stage)
		require.Len(t, match.History, 1)

		result := match.History[0]
		assert.Equal(t, entity.StoppedByHuman, result.StoppedBy)
		assert.Equal(t, match.Letter, result.Letter)
		require.Len(t, result.PerPlayer, len(match.Players))

		// Then: every player has a cell for every category
		for _, entry := range result.PerPlayer {
			for _, category := range match.Categories {
				require.Contains(t, entry.PerCategoryScore, category)
			}
		}

		// Then: the live answers were cleared
		assert.Nil(t, match.Answers)
	})

	t.Run("Second trigger in the same round is rejected", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{})

		require.NoError(t, controller.PressStop(match, entity.StoppedByHuman))

		// When: the bot timer fires after the human already stopped
		err := controller.PressStop(match, entity.StoppedByBot)

		// Then: the round is not scored twice
		require.ErrorIs(t, err, apperror.ErrRoundNotActive)
		assert.Len(t, match.History, 1)
	})

	t.Run("Empty trigger defaults to human", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{})

		require.NoError(t, controller.PressStop(match, ""))
		assert.Equal(t, entity.StoppedByHuman, match.History[0].StoppedBy)
	})

	t.Run("Idle match cannot be stopped", func(t *testing.T) {
		match := entity.NewMatch("m2")

		err := controller.PressStop(match, entity.StoppedByHuman)

		require.ErrorIs(t, err, apperror.ErrMatchNotStarted)
		assert.Empty(t, match.History)
	})
}

func TestController_AdvanceAfterResults(t *testing.T) {
	controller := testController(nil)

	t.Run("Moves to the next round while rounds remain", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 2})
		require.NoError(t, controller.PressStop(match, entity.StoppedByTime))

		// When: leaving the results screen
		err := controller.AdvanceAfterResults(match)

		// Then: round two is live with fresh working state
		require.NoError(t, err)
		assert.Equal(t, entity.StagePlaying, match.Stage)
		assert.Equal(t, 2, match.RoundNumber)
		assert.Empty(t, match.Answers)
	})

	t.Run("Finishes the match after the last round", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 1})
		require.NoError(t, controller.PressStop(match, entity.StoppedByHuman))

		err := controller.AdvanceAfterResults(match)

		require.NoError(t, err)
		assert.Equal(t, entity.StageFinished, match.Stage)
	})

	t.Run("No-op outside the results stage", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{})

		err := controller.AdvanceAfterResults(match)

		require.ErrorIs(t, err, apperror.ErrNoRoundResults)
		assert.Equal(t, entity.StagePlaying, match.Stage)
	})
}

func TestController_FullMatchFlow(t *testing.T) {
	controller := testController(nil)
	match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 3, BotCount: 2})

	// When: playing all three rounds to the end
	for round := 1; round <= 3; round++ {
		require.Equal(t, round, match.RoundNumber)
		require.NoError(t, controller.PressStop(match, entity.StoppedByTime))
		require.NoError(t, controller.AdvanceAfterResults(match))
	}

	// Then: the match is finished with a full history
	require.Equal(t, entity.StageFinished, match.Stage)
	require.Len(t, match.History, 3)

	// Then: cumulative scores agree with the history totals
	totals := match.HistoryTotals()
	for _, player := range match.Players {
		assert.Equal(t, totals[player.ID], player.Score)
	}
}

func TestController_StartSuddenDeath(t *testing.T) {
	controller := testController(nil)

	t.Run("Extends a drawn match by one round", func(t *testing.T) {
		// Given: a finished match with identical records
		match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 1})
		match.Stage = entity.StageFinished
		match.History = []entity.RoundResult{roundWith(map[string]int{"human": 10, "bot-1": 10})}
		match.HumanPlayer().Score = 10
		match.Bots()[0].Score = 10

		// When: the host offers sudden death
		err := controller.StartSuddenDeath(match)

		// Then: one extra round is live
		require.NoError(t, err)
		assert.Equal(t, entity.StagePlaying, match.Stage)
		assert.Equal(t, 2, match.TotalRounds)
		assert.Equal(t, 2, match.RoundNumber)
	})

	t.Run("Rejected without a draw", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 1})
		match.Stage = entity.StageFinished
		match.HumanPlayer().Score = 10

		err := controller.StartSuddenDeath(match)

		require.ErrorIs(t, err, apperror.ErrNoDrawToResolve)
	})

	t.Run("Rejected while the match is still running", func(t *testing.T) {
		match := startedMatch(t, controller, entity.MatchConfig{})

		err := controller.StartSuddenDeath(match)

		require.ErrorIs(t, err, apperror.ErrNoDrawToResolve)
	})
}

func TestController_Reset(t *testing.T) {
	controller := testController(nil)

	// Given: a match with a live round and some history
	match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 3})
	require.NoError(t, controller.PressStop(match, entity.StoppedByHuman))
	require.NoError(t, controller.AdvanceAfterResults(match))
	match.UpdateAnswer("Animal", "Mono")

	// When: the host resets mid-round
	controller.Reset(match)

	// Then: everything is abandoned, the in-flight round unscored
	assert.Equal(t, entity.StageIdle, match.Stage)
	assert.Empty(t, match.History)
	assert.Empty(t, match.Players)
	assert.Empty(t, match.Letter)
}

type panickyEffects struct{}

func (panickyEffects) RoundStarted(*entity.Match)         { panic("sound device exploded") }
func (panickyEffects) RoundStopped(*entity.Match, string) { panic("sound device exploded") }
func (panickyEffects) MatchFinished(*entity.Match)        { panic("sound device exploded") }

func TestController_EffectsNeverFailTransitions(t *testing.T) {
	// Given: an effects sink that panics on every callback
	controller := testController(panickyEffects{})

	// When: running a whole round through it
	match := startedMatch(t, controller, entity.MatchConfig{TotalRounds: 1})

	require.Equal(t, entity.StagePlaying, match.Stage)
	require.NoError(t, controller.PressStop(match, entity.StoppedByHuman))
	require.NoError(t, controller.AdvanceAfterResults(match))

	// Then: transitions completed despite the broken side effects
	assert.Equal(t, entity.StageFinished, match.Stage)
}
