package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Ask sends the first question of a conversation. The answer may carry a
// newly created conversation id.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*Answer, error) {
	return c.ask(ctx, "ask", "chat/ask", req)
}

// FollowUp asks a question within an existing conversation.
func (c *Client) FollowUp(ctx context.Context, conversationID string, req AskRequest) (*Answer, error) {
	ans, err := c.ask(ctx, "follow up", "chat/follow-up/"+url.PathEscape(conversationID), req)
	if err != nil {
		return nil, err
	}
	if ans.ConversationID == "" {
		ans.ConversationID = conversationID
	}
	return ans, nil
}

func (c *Client) ask(ctx context.Context, op, path string, req AskRequest) (*Answer, error) {
	body, err := askPayload(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, op, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return parseAnswer(op, resp.body)
}

func askPayload(req AskRequest) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "question", req.Question)
	if err != nil {
		return nil, err
	}
	if len(req.Images) > 0 {
		body, err = sjson.SetBytes(body, "images", req.Images)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}

func parseAnswer(op string, data []byte) (*Answer, error) {
	if !gjson.ValidBytes(data) {
		return nil, decodeError(op, errors.New("invalid json"))
	}
	r := gjson.ParseBytes(data)
	text := r.Get("answer")
	if !text.Exists() {
		return nil, decodeError(op, errors.New("missing answer"))
	}

	ans := &Answer{
		Question:       r.Get("question").String(),
		Text:           text.String(),
		ConversationID: r.Get("conversationId").String(),
		Timestamp:      parseTime(r.Get("timestamp")),
		Tables:         parseTables(r.Get("tables")),
		Alerts:         parseAlerts(r.Get("alerts")),
		Images:         parseStrings(r.Get("images")),
	}
	if h := r.Get("history"); h.IsArray() {
		ans.History = parseBackendMessages(h)
	}
	return ans, nil
}
