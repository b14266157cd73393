package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/juancabrera0513/stop/internal/entity"
	"github.com/juancabrera0513/stop/internal/pkg"
	"github.com/juancabrera0513/stop/internal/repository"
	"github.com/juancabrera0513/stop/internal/stopgame"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *repository.Session) error
	GetByID(ctx context.Context, id string) (*repository.Session, error)
}

// MatchManager is the single entry point for match commands. All mutating
// commands are serialized through one mutex so overlapping STOP triggers
// (human press, bot delay, timeout firing in the same tick) cannot both
// finalize a round: the second one finds the match past `playing` and no-ops.
type MatchManager struct {
	logger      *slog.Logger
	matchRepo   matchRepo
	sessionRepo sessionRepo
	controller  *stopgame.Controller

	mu sync.Mutex
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, sessionRepo sessionRepo, controller *stopgame.Controller) *MatchManager {
	return &MatchManager{
		logger:      logger.With("component", "match_manager"),
		matchRepo:   matchRepo,
		sessionRepo: sessionRepo,
		controller:  controller,
	}
}

// GetOrCreateSession resolves a session id (websocket cookie) to its session,
// creating a fresh one for unknown or empty ids.
func (that *MatchManager) GetOrCreateSession(ctx context.Context, id string) (*repository.Session, error) {
	if id == "" {
		return that.createSession(ctx)
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return that.createSession(ctx)
	}

	return session, nil
}

func (that *MatchManager) createSession(ctx context.Context) (*repository.Session, error) {
	session := &repository.Session{
		ID: pkg.GenerateNewSessionID(),
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// StartMatch creates a match for the session (reusing its match id if one
// exists) and starts round one with the given config.
func (that *MatchManager) StartMatch(ctx context.Context, sessionID string, cfg entity.MatchConfig) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	matchID := session.MatchID
	if matchID == "" {
		matchID = pkg.GenerateMatchID()

		session.MatchID = matchID
		if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}
	}

	match := entity.NewMatch(matchID)
	that.controller.StartMatch(match, cfg)

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return match, nil
}

// GetMatch returns the current match state for the UI.
func (that *MatchManager) GetMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// UpdateAnswer records the human's live input for one category.
func (that *MatchManager) UpdateAnswer(ctx context.Context, matchID, category, text string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	match.UpdateAnswer(category, text)

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return match, nil
}

// PressStop ends the round on behalf of the given trigger. Guarded transition
// errors come back to the caller, which treats them as a no-op: exactly one
// trigger per round wins.
func (that *MatchManager) PressStop(ctx context.Context, matchID, stoppedBy string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err = that.controller.PressStop(match, stoppedBy); err != nil {
		return match, err
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return match, nil
}

// AdvanceAfterResults moves from the results screen to the next round or to
// the final standings.
func (that *MatchManager) AdvanceAfterResults(ctx context.Context, matchID string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err = that.controller.AdvanceAfterResults(match); err != nil {
		return match, err
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return match, nil
}

// StartSuddenDeath plays one extra tie-breaker round after a drawn match.
func (that *MatchManager) StartSuddenDeath(ctx context.Context, matchID string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err = that.controller.StartSuddenDeath(match); err != nil {
		return match, err
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return match, nil
}

// FinalStandings ranks a finished match for presentation.
func (that *MatchManager) FinalStandings(ctx context.Context, matchID string) ([]stopgame.Standing, bool, error) {
	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get match: %w", err)
	}

	standings, draw := stopgame.FinalStandings(match)

	return standings, draw, nil
}

// ResetMatch abandons the match, in-flight round included, without scoring it.
func (that *MatchManager) ResetMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	that.controller.Reset(match)

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return match, nil
}
