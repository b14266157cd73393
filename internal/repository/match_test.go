package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juancabrera0513/stop/internal/apperror"
	"github.com/juancabrera0513/stop/internal/entity"
	"github.com/juancabrera0513/stop/testing/suite"
)

func TestMatchRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := NewMatchRepository(st.Storage)

	// Given: a match with ID
	match := entity.NewMatch("123")

	// When: CreateOrUpdate is called
	err := matchRepo.CreateOrUpdate(ctx, match)

	// Then: no error should be returned, and match is stored
	require.NoError(t, err)
}

func TestMatchRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage)

		// Given: a stored match with players and a live round
		match := entity.NewMatch("123")
		match.Stage = entity.StagePlaying
		match.Letter = "M"
		match.Players = []*entity.Player{
			{ID: "human", Name: "Tú"},
			{ID: "bot-1", Name: "CPU", IsBot: true, Difficulty: entity.DifficultyEasy},
		}

		err := matchRepo.CreateOrUpdate(ctx, match)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedMatch, err := matchRepo.GetByID(ctx, match.ID)

		// Then: the retrieved match should match the saved match
		require.NoError(t, err)
		require.Equal(t, match.ID, retrievedMatch.ID)
		assert.Equal(t, match.Stage, retrievedMatch.Stage)
		assert.Equal(t, match.Letter, retrievedMatch.Letter)
		require.Len(t, retrievedMatch.Players, 2)
		assert.Equal(t, "human", retrievedMatch.Players[0].ID)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage)

		nonExistentMatchID := "9999999"

		// When: GetByID is called with non-existent ID
		retrievedMatch, err := matchRepo.GetByID(ctx, nonExistentMatchID)

		// Then: an ErrMatchNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, apperror.ErrMatchNotFound, err)
		assert.Nil(t, retrievedMatch)
	})
}

func TestMatchRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := NewMatchRepository(st.Storage)

	// Given: a stored match
	match := entity.NewMatch("123")
	require.NoError(t, matchRepo.CreateOrUpdate(ctx, match))

	// When: DeleteByID is called
	err := matchRepo.DeleteByID(ctx, match.ID)

	// Then: the match is gone
	require.NoError(t, err)

	_, err = matchRepo.GetByID(ctx, match.ID)
	assert.Equal(t, apperror.ErrMatchNotFound, err)
}
