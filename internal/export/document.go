// Package export writes chat sessions and backend conversations to files.
package export

import (
	"time"

	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/session"
)

// Document is the exported form of one conversation.
type Document struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	ConversationID string    `json:"conversationId,omitempty" yaml:"conversationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" yaml:"updatedAt"`
	Messages       []Entry   `json:"messages" yaml:"messages"`
}

// Entry is one exported message.
type Entry struct {
	ID        string            `json:"id" yaml:"id"`
	Sender    message.Sender    `json:"sender" yaml:"sender"`
	Type      message.Type      `json:"type" yaml:"type"`
	Content   string            `json:"content" yaml:"content"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Metadata  *message.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FromSession builds a document from a local session.
func FromSession(s session.Session) *Document {
	return &Document{
		ID:             s.ID,
		Title:          s.Title,
		ConversationID: s.ConversationID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Messages:       entries(s.Messages),
	}
}

// FromHistory builds a document from a backend conversation history.
func FromHistory(title string, h gateway.History) *Document {
	return &Document{
		ID:             h.ConversationID,
		Title:          title,
		ConversationID: h.ConversationID,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
		Messages:       entries(gateway.ToMessages(h.Messages)),
	}
}

func entries(msgs []message.Message) []Entry {
	out := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		e := Entry{
			ID:        m.ID,
			Sender:    m.Sender,
			Type:      m.Type,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
		if md := m.Metadata(); !md.IsZero() {
			e.Metadata = &md
		}
		out = append(out, e)
	}
	return out
}
