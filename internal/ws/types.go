package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeResign     MessageType = "resign"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload wraps an error text so the payload stays valid JSON.
func ErrorPayload(text string) json.RawMessage {
	b, err := json.Marshal(map[string]string{"error": text})
	if err != nil {
		return json.RawMessage(`{"error":"internal error"}`)
	}
	return b
}
