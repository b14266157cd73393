package websocket

import (
	"encoding/json"

	"github.com/juancabrera0513/stop/internal/entity"
	"github.com/juancabrera0513/stop/internal/repository"
	"github.com/juancabrera0513/stop/internal/stopgame"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both request fields (session, config, answer input, stop
// trigger) and response fields (match state, standings, error).
type Payload struct {
	Session *repository.Session `json:"session,omitempty"`
	Config  *entity.MatchConfig `json:"config,omitempty"`
	Match   *entity.Match       `json:"match,omitempty"`

	Category  string `json:"category,omitempty"`
	Text      string `json:"text,omitempty"`
	StoppedBy string `json:"stopped_by,omitempty"`

	Standings []stopgame.Standing `json:"standings,omitempty"`
	Draw      bool                `json:"draw,omitempty"`

	Error string `json:"error,omitempty"`
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool   // whether this frame is the last one of the message
	opCode  byte   // operation code (text message, close, and so on)
	length  uint64 // payload length
	payload []byte // frame payload
}
