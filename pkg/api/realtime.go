package api

import "encoding/json"

// Realtime event types pushed by the server over the websocket channel.
const (
	EventNotification = "notification"
	EventNewMessage   = "new_message"
	EventTyping       = "typing"
)

// Event is the wire envelope for realtime pushes.
// Payload stays raw until the event type is known.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TypingPayload signals that a participant is typing in a conversation.
type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsTyping       bool   `json:"isTyping"`
}
