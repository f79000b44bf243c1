package gateway

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/guilhermegouw/agrochat/internal/message"
)

// Role is the sender of a backend message.
type Role string

// Backend roles. Anything that is not "user" is treated as the assistant.
const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// ConversationMetadata is the known part of a conversation's metadata.
type ConversationMetadata struct {
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// MessageMetadata is the known part of a backend message's metadata.
type MessageMetadata struct {
	ProcessingTime     float64   `json:"processingTime,omitempty" yaml:"processingTime,omitempty"`
	RetrievedDocsCount int       `json:"retrievedDocsCount,omitempty" yaml:"retrievedDocsCount,omitempty"`
	Timestamp          time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// BackendMessage is one persisted turn of a conversation.
type BackendMessage struct {
	ID             string          `json:"id" yaml:"id"`
	ConversationID string          `json:"conversationId,omitempty" yaml:"conversationId,omitempty"`
	Role           Role            `json:"role" yaml:"role"`
	Content        string          `json:"content" yaml:"content"`
	Type           string          `json:"type,omitempty" yaml:"type,omitempty"`
	CreatedAt      time.Time       `json:"createdAt" yaml:"createdAt"`
	Metadata       MessageMetadata `json:"metadata" yaml:"metadata"`
}

// ToMessage converts a backend turn into a local message, keeping its type
// and processing metadata.
func (m BackendMessage) ToMessage() message.Message {
	sender := message.SenderAI
	if m.Role == RoleUser {
		sender = message.SenderUser
	}
	return message.Message{
		ID:             m.ID,
		Content:        m.Content,
		Sender:         sender,
		Type:           message.ParseType(m.Type),
		Timestamp:      m.CreatedAt,
		ProcessingTime: m.Metadata.ProcessingTime,
		RetrievedDocs:  m.Metadata.RetrievedDocsCount,
	}
}

// ToMessages converts backend turns in order.
func ToMessages(in []BackendMessage) []message.Message {
	out := make([]message.Message, len(in))
	for i, m := range in {
		out[i] = m.ToMessage()
	}
	return out
}

// Conversation is a backend conversation summary.
type Conversation struct {
	ID        string               `json:"id" yaml:"id"`
	Title     string               `json:"title" yaml:"title"`
	UserID    string               `json:"userId,omitempty" yaml:"userId,omitempty"`
	Metadata  ConversationMetadata `json:"metadata" yaml:"metadata"`
	CreatedAt time.Time            `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" yaml:"updatedAt"`
	Messages  []BackendMessage     `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// History is the non-paginated history of one conversation.
type History struct {
	ConversationID string
	Messages       []BackendMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HistoryPage is one page of a conversation's history.
type HistoryPage struct {
	Messages []BackendMessage
	HasMore  bool
	Total    int
}

// Stats summarizes a conversation.
type Stats struct {
	ConversationID   string
	MessageCount     int
	FirstMessageDate time.Time
	LastMessageDate  time.Time
}

// AskRequest is a question with optional data-URL images.
type AskRequest struct {
	Question string
	Images   []string
}

// Answer is the backend's reply to a question.
type Answer struct {
	Question       string
	Text           string
	ConversationID string
	Timestamp      time.Time
	Tables         []message.TableData
	Alerts         []message.AlertLevel
	Images         []string
	History        []BackendMessage
}

// Attachments returns the first table and first alert of the answer in
// attachment form.
func (a *Answer) Attachments() []message.Attachment {
	var atts []message.Attachment
	if len(a.Tables) > 0 {
		atts = append(atts, message.Table{TableData: a.Tables[0]})
	}
	if len(a.Alerts) > 0 {
		atts = append(atts, message.Alert{Level: a.Alerts[0]})
	}
	return atts
}

func parseTime(r gjson.Result) time.Time {
	if !r.Exists() {
		return time.Time{}
	}
	if r.Type == gjson.Number {
		return time.UnixMilli(r.Int()).UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, r.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseStrings(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// parseRole reads the sender from role, falling back to type.
func parseRole(r gjson.Result) Role {
	raw := r.Get("role").String()
	if raw == "" {
		raw = r.Get("type").String()
	}
	if strings.EqualFold(raw, string(RoleUser)) {
		return RoleUser
	}
	return RoleAI
}

func parseBackendMessage(r gjson.Result) BackendMessage {
	md := r.Get("metadata")
	return BackendMessage{
		ID:             r.Get("id").String(),
		ConversationID: r.Get("conversationId").String(),
		Role:           parseRole(r),
		Content:        r.Get("content").String(),
		Type:           r.Get("type").String(),
		CreatedAt:      parseTime(r.Get("createdAt")),
		Metadata: MessageMetadata{
			ProcessingTime:     md.Get("processingTime").Float(),
			RetrievedDocsCount: int(md.Get("retrievedDocsCount").Int()),
			Timestamp:          parseTime(md.Get("timestamp")),
		},
	}
}

func parseBackendMessages(r gjson.Result) []BackendMessage {
	out := []BackendMessage{}
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, parseBackendMessage(v))
		return true
	})
	return out
}

func parseConversation(r gjson.Result) Conversation {
	md := r.Get("metadata")
	conv := Conversation{
		ID:     r.Get("id").String(),
		Title:  r.Get("title").String(),
		UserID: r.Get("userId").String(),
		Metadata: ConversationMetadata{
			Source:   md.Get("source").String(),
			Language: md.Get("language").String(),
			Tags:     parseStrings(md.Get("tags")),
		},
		CreatedAt: parseTime(r.Get("createdAt")),
		UpdatedAt: parseTime(r.Get("updatedAt")),
	}
	if msgs := r.Get("messages"); msgs.IsArray() {
		conv.Messages = parseBackendMessages(msgs)
	}
	return conv
}

// parseTables keeps only rectangular tables with headers.
func parseTables(r gjson.Result) []message.TableData {
	var out []message.TableData
	r.ForEach(func(_, v gjson.Result) bool {
		t := message.TableData{
			Headers: parseStrings(v.Get("headers")),
			Caption: v.Get("caption").String(),
		}
		v.Get("rows").ForEach(func(_, row gjson.Result) bool {
			t.Rows = append(t.Rows, parseStrings(row))
			return true
		})
		if len(t.Headers) > 0 && t.Validate() == nil {
			out = append(out, t)
		}
		return true
	})
	return out
}

// parseAlerts accepts both "warning" and {"level":"warning"} entries.
func parseAlerts(r gjson.Result) []message.AlertLevel {
	var out []message.AlertLevel
	r.ForEach(func(_, v gjson.Result) bool {
		raw := v.String()
		if v.IsObject() {
			raw = v.Get("level").String()
		}
		if level, ok := message.ParseAlertLevel(raw); ok {
			out = append(out, level)
		}
		return true
	})
	return out
}
