package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// CreateConversation creates a backend conversation and returns its id.
func (c *Client) CreateConversation(ctx context.Context, title string) (string, error) {
	const op = "create conversation"

	body, err := sjson.SetBytes([]byte(`{}`), "title", title)
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, op, http.MethodPost, "chat/conversations", nil, body)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(resp.body) {
		return "", decodeError(op, errors.New("invalid json"))
	}

	id := gjson.GetBytes(resp.body, "conversationId").String()
	if id == "" {
		return "", decodeError(op, errors.New("missing conversationId"))
	}
	return id, nil
}

// ListConversations returns the backend conversations, newest first as the
// backend orders them. userID may be empty; limit <= 0 leaves it unset.
func (c *Client) ListConversations(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	const op = "list conversations"

	q := url.Values{}
	if userID != "" {
		q.Set("userId", userID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	resp, err := c.do(ctx, op, http.MethodGet, "chat/conversations", q, nil)
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(resp.body)
	if !gjson.ValidBytes(resp.body) || !root.IsArray() {
		return nil, decodeError(op, errors.New("expected a json array"))
	}

	convs := []Conversation{}
	root.ForEach(func(_, v gjson.Result) bool {
		convs = append(convs, parseConversation(v))
		return true
	})
	return convs, nil
}

// ConversationStats returns message counts and dates for a conversation.
func (c *Client) ConversationStats(ctx context.Context, conversationID string) (*Stats, error) {
	const op = "conversation stats"

	resp, err := c.do(ctx, op, http.MethodGet, "chat/conversations/"+url.PathEscape(conversationID)+"/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, decodeError(op, errors.New("invalid json"))
	}

	r := gjson.ParseBytes(resp.body)
	stats := &Stats{
		ConversationID:   r.Get("conversationId").String(),
		MessageCount:     int(r.Get("messageCount").Int()),
		FirstMessageDate: parseTime(r.Get("firstMessageDate")),
		LastMessageDate:  parseTime(r.Get("lastMessageDate")),
	}
	if stats.ConversationID == "" {
		stats.ConversationID = conversationID
	}
	return stats, nil
}

// ClearMessages removes every message of a conversation. It reports true
// only when the backend answers 204 No Content.
func (c *Client) ClearMessages(ctx context.Context, conversationID string) (bool, error) {
	resp, err := c.do(ctx, "clear messages", http.MethodDelete,
		"chat/conversations/"+url.PathEscape(conversationID)+"/messages", nil, nil)
	if err != nil {
		return false, err
	}
	return resp.status == http.StatusNoContent, nil
}

// DeleteConversation deletes a conversation. Any 2xx counts as success.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	if _, err := c.do(ctx, "delete conversation", http.MethodDelete,
		"chat/conversations/"+url.PathEscape(conversationID), nil, nil); err != nil {
		return false, err
	}
	return true, nil
}
