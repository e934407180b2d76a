package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

func pageParams(page, limit int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	return params.Encode()
}

// ListConversations fetches a page of the current user's conversations.
func (c *Client) ListConversations(ctx context.Context, page, limit int) (*pkgapi.ConversationsPage, error) {
	var resp pkgapi.ConversationsPage
	err := c.doAuthed(ctx, http.MethodGet, "/conversations?"+pageParams(page, limit), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list conversations request failed: %w", err)
	}
	return &resp, nil
}

// CreateConversation opens a conversation with another participant.
func (c *Client) CreateConversation(ctx context.Context, req pkgapi.CreateConversationRequest) (*pkgapi.Conversation, error) {
	var conv pkgapi.Conversation
	err := c.doAuthed(ctx, http.MethodPost, "/conversations", req, &conv)
	if err != nil {
		return nil, fmt.Errorf("create conversation request failed: %w", err)
	}
	return &conv, nil
}

// ListMessages fetches a page of messages in a conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID string, page, limit int) (*pkgapi.MessagesPage, error) {
	var resp pkgapi.MessagesPage
	path := "/messages/conversation/" + conversationID + "?" + pageParams(page, limit)
	err := c.doAuthed(ctx, http.MethodGet, path, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list messages request failed: %w", err)
	}
	return &resp, nil
}

// SendMessage posts a message into a conversation.
func (c *Client) SendMessage(ctx context.Context, req pkgapi.SendMessageRequest) (*pkgapi.Message, error) {
	var msg pkgapi.Message
	err := c.doAuthed(ctx, http.MethodPost, "/messages", req, &msg)
	if err != nil {
		return nil, fmt.Errorf("send message request failed: %w", err)
	}
	return &msg, nil
}

// MarkMessagesRead marks messages in a conversation as read.
func (c *Client) MarkMessagesRead(ctx context.Context, req pkgapi.MarkMessagesReadRequest) error {
	err := c.doAuthed(ctx, http.MethodPost, "/messages/mark-read", req, nil)
	if err != nil {
		return fmt.Errorf("mark messages read request failed: %w", err)
	}
	return nil
}

// ListNotifications fetches a page of the current user's notifications.
func (c *Client) ListNotifications(ctx context.Context, page, limit int) (*pkgapi.NotificationsPage, error) {
	var resp pkgapi.NotificationsPage
	err := c.doAuthed(ctx, http.MethodGet, "/notifications?"+pageParams(page, limit), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list notifications request failed: %w", err)
	}
	return &resp, nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	err := c.doAuthed(ctx, http.MethodGet, "/notifications/unread-count", nil, &resp)
	if err != nil {
		return 0, fmt.Errorf("unread count request failed: %w", err)
	}
	return resp.Count, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	err := c.doAuthed(ctx, http.MethodPost, "/notifications/"+notificationID+"/read", nil, nil)
	if err != nil {
		return fmt.Errorf("mark notification read request failed: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	err := c.doAuthed(ctx, http.MethodPost, "/notifications/read-all", nil, nil)
	if err != nil {
		return fmt.Errorf("mark all notifications read request failed: %w", err)
	}
	return nil
}
