package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// History fetches the full history of a conversation.
func (c *Client) History(ctx context.Context, conversationID string) (*History, error) {
	const op = "history"

	resp, err := c.do(ctx, op, http.MethodGet, "chat/history/"+url.PathEscape(conversationID), nil, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, decodeError(op, errors.New("invalid json"))
	}

	r := gjson.ParseBytes(resp.body)
	if !r.IsObject() {
		return nil, decodeError(op, errors.New("expected a json object"))
	}
	h := &History{
		ConversationID: r.Get("conversationId").String(),
		Messages:       parseBackendMessages(r.Get("messages")),
		CreatedAt:      parseTime(r.Get("createdAt")),
		UpdatedAt:      parseTime(r.Get("updatedAt")),
	}
	if h.ConversationID == "" {
		h.ConversationID = conversationID
	}
	return h, nil
}

// HistoryPage fetches one page of history. Zero limit or offset are omitted.
func (c *Client) HistoryPage(ctx context.Context, conversationID string, limit, offset int) (*HistoryPage, error) {
	const op = "history page"

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	resp, err := c.do(ctx, op, http.MethodGet, "chat/history/"+url.PathEscape(conversationID), q, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, decodeError(op, errors.New("invalid json"))
	}

	r := gjson.ParseBytes(resp.body)
	page := &HistoryPage{
		Messages: parseBackendMessages(r.Get("messages")),
		HasMore:  r.Get("hasMore").Bool(),
		Total:    int(r.Get("total").Int()),
	}
	if !r.Get("total").Exists() {
		page.Total = len(page.Messages)
	}
	return page, nil
}
