package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/juancabrera0513/stop/internal/apperror"
	"github.com/juancabrera0513/stop/internal/entity"
)

// Guarded-transition sentinels are a silent no-op toward the client: the
// current match state is sent back instead of an error, so a late STOP or
// advance from a stale screen cannot surface as a failure.
func isGuardNoOp(err error) bool {
	return errors.Is(err, apperror.ErrRoundNotActive) ||
		errors.Is(err, apperror.ErrMatchNotStarted) ||
		errors.Is(err, apperror.ErrMatchFinished) ||
		errors.Is(err, apperror.ErrNoRoundResults) ||
		errors.Is(err, apperror.ErrNoDrawToResolve)
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	sessionID := ""
	if payloadReq.Session != nil {
		sessionID = payloadReq.Session.ID
	}

	session, err := that.matches.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to create or get session", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new session")
	}

	payloadResp := Payload{Session: session}

	if session.MatchID != "" {
		match, err := that.matches.GetMatch(ctx, session.MatchID)
		if err == nil {
			payloadResp.Match = match
		}
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected session")

	return nil
}

func (that *Server) handleStartMatch(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleStartMatch")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Session == nil {
		log.Error("Session is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Session is required")
	}

	cfg := entity.MatchConfig{}
	if payloadReq.Config != nil {
		cfg = *payloadReq.Config
	}
	that.applyDefaults(&cfg)

	match, err := that.matches.StartMatch(ctx, payloadReq.Session.ID, cfg)
	if err != nil {
		log.Error("failed to start match", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to start match")
	}

	return that.sendMessage(bufrw, msg.Action, Payload{Match: match})
}

// applyDefaults fills unset config fields from the server-side game defaults.
func (that *Server) applyDefaults(cfg *entity.MatchConfig) {
	if cfg.TotalRounds < 1 {
		cfg.TotalRounds = that.defaults.TotalRounds
	}
	if cfg.BotCount < 1 {
		cfg.BotCount = that.defaults.BotCount
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = entity.Difficulty(that.defaults.Difficulty)
	}
}

func (that *Server) handleMatchState(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	matchID, err := that.matchIDFromPayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	match, err := that.matches.GetMatch(ctx, matchID)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get match")
	}

	payload := Payload{Match: match}
	if match.IsFinished() {
		standings, draw, err := that.matches.FinalStandings(ctx, matchID)
		if err == nil {
			payload.Standings = standings
			payload.Draw = draw
		}
	}

	return that.sendMessage(bufrw, msg.Action, payload)
}

func (that *Server) handleUpdateAnswer(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	matchID, err := that.matchIDFromPayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	match, err := that.matches.UpdateAnswer(ctx, matchID, payloadReq.Category, payloadReq.Text)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "failed to update answer")
	}

	return that.sendMessage(bufrw, msg.Action, Payload{Match: match})
}

func (that *Server) handlePressStop(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handlePressStop")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	matchID, err := that.matchIDFromPayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	stoppedBy := payloadReq.StoppedBy
	switch stoppedBy {
	case "", entity.StoppedByHuman, entity.StoppedByBot, entity.StoppedByTime:
	default:
		return that.sendErrorResponse(bufrw, msg.Action, apperror.ErrUnknownStoppedBy.Error())
	}

	match, err := that.matches.PressStop(ctx, matchID, stoppedBy)
	if err != nil && !isGuardNoOp(err) {
		log.Error("failed to press stop", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to stop the round")
	}

	return that.sendMessage(bufrw, msg.Action, Payload{Match: match})
}

func (that *Server) handleAdvance(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	matchID, err := that.matchIDFromPayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	match, err := that.matches.AdvanceAfterResults(ctx, matchID)
	if err != nil && !isGuardNoOp(err) {
		return that.sendErrorResponse(bufrw, msg.Action, "failed to advance")
	}

	payload := Payload{Match: match}
	if match != nil && match.IsFinished() {
		standings, draw, err := that.matches.FinalStandings(ctx, matchID)
		if err == nil {
			payload.Standings = standings
			payload.Draw = draw
		}
	}

	return that.sendMessage(bufrw, msg.Action, payload)
}

func (that *Server) handleSuddenDeath(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	matchID, err := that.matchIDFromPayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	match, err := that.matches.StartSuddenDeath(ctx, matchID)
	if err != nil && !isGuardNoOp(err) {
		return that.sendErrorResponse(bufrw, msg.Action, "failed to start sudden death")
	}

	return that.sendMessage(bufrw, msg.Action, Payload{Match: match})
}

func (that *Server) handleReset(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	matchID, err := that.matchIDFromPayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	match, err := that.matches.ResetMatch(ctx, matchID)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "failed to reset match")
	}

	return that.sendMessage(bufrw, msg.Action, Payload{Match: match})
}

func (that *Server) matchIDFromPayload(msg *Message) (string, error) {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return "", fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Match == nil || payloadReq.Match.ID == "" {
		return "", errors.New("match id is required")
	}

	return payloadReq.Match.ID, nil
}
