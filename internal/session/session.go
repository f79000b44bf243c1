// Package session holds the in-memory chat sessions and the manager that is
// the only write path into them.
package session

import (
	"errors"
	"time"

	"github.com/guilhermegouw/agrochat/internal/message"
)

// DefaultTitle is the title of a freshly created session.
const DefaultTitle = "New Chat"

var (
	// ErrNotFound is returned when a session is not found.
	ErrNotFound = errors.New("session not found")

	// ErrConversationPinned is returned when rebinding a session that is
	// already bound to a different backend conversation.
	ErrConversationPinned = errors.New("session already bound to a conversation")
)

// Session is a local chat thread, optionally bound to a backend conversation.
type Session struct {
	ID             string
	Title          string
	Messages       []message.Message
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ConversationID string
}

// Bound reports whether the session has a backend conversation.
func (s Session) Bound() bool {
	return s.ConversationID != ""
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	s.Messages = message.CloneAll(s.Messages)
	return s
}

// LastAIMessage returns the most recent AI reply in the session.
func (s Session) LastAIMessage() (message.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Sender == message.SenderAI {
			return s.Messages[i], true
		}
	}
	return message.Message{}, false
}
