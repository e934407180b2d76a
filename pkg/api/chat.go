package api

// Conversation is a chat thread between a client and a contractor,
// optionally tied to a job listing.
type Conversation struct {
	ID            string `json:"_id"`
	Participants  []User `json:"participants,omitempty"`
	JobID         string `json:"jobId,omitempty"`
	LastMessage   string `json:"lastMessage,omitempty"`
	LastMessageAt string `json:"lastMessageAt,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// CreateConversationRequest is the body of POST /conversations.
type CreateConversationRequest struct {
	ParticipantID string `json:"participantId"`
	JobID         string `json:"jobId,omitempty"`
}

// Message is a single chat message.
type Message struct {
	ID             string `json:"_id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Text           string `json:"text"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// SendMessageRequest is the body of POST /messages.
type SendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Text           string `json:"text"`
}

// MarkMessagesReadRequest is the body of POST /messages/mark-read.
type MarkMessagesReadRequest struct {
	ConversationID string   `json:"conversationId"`
	MessageIDs     []string `json:"messageIds,omitempty"`
}

// MessagesPage is the paginated response of GET /messages/conversation/{id}.
type MessagesPage struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// ConversationsPage is the paginated response of GET /conversations.
type ConversationsPage struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}

// Notification is a server-pushed or polled user notification.
type Notification struct {
	ID        string `json:"_id"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	RelatedID string `json:"relatedId,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// NotificationsPage is the paginated response of GET /notifications.
type NotificationsPage struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unreadCount"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}
