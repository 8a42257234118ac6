package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// Client to server.
	MessageTypeMove        MessageType = "move"
	MessageTypeLegalMoves  MessageType = "legalMoves"
	MessageTypeEngineReply MessageType = "engineReply"
	MessageTypeReset       MessageType = "reset"

	// Server to client.
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LegalMovesRequest asks for the legal moves of the piece on From.
type LegalMovesRequest struct {
	From string `json:"from"`
}

// LegalMovesPayload answers a LegalMovesRequest.
type LegalMovesPayload struct {
	From  string   `json:"from"`
	Moves []string `json:"moves"`
}

// EngineReplyRequest carries a raw line of engine output, e.g. "bestmove e2e4".
type EngineReplyRequest struct {
	Line string `json:"line"`
}

type MatchFoundPayload struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorMessage builds an error message for err. Its payload is always valid JSON.
func ErrorMessage(err error) Message {
	raw, _ := json.Marshal(ErrorPayload{Error: err.Error()})
	return Message{Type: MessageTypeError, Payload: raw}
}
