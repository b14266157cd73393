package apperror

import "errors"

var (
	ErrMatchNotStarted  = errors.New("match is not started")
	ErrMatchFinished    = errors.New("match is already finished")
	ErrMatchNotFound    = errors.New("match not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrRoundNotActive   = errors.New("round is not active")
	ErrNoRoundResults   = errors.New("no round results to advance from")
	ErrMatchIncomplete  = errors.New("match needs one human and at least one bot")
	ErrNoDrawToResolve  = errors.New("no draw to resolve with sudden death")
	ErrUnknownStoppedBy = errors.New("unknown stop trigger")
)
