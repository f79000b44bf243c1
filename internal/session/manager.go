package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/message"
)

// Manager owns the reconciliation rules between local sessions and backend
// conversations. It is the only writer of a Store.
type Manager struct {
	store *Store
	now   func() time.Time
}

// NewManager creates a manager over store.
func NewManager(store *Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Store returns the underlying store for reads.
func (m *Manager) Store() *Store {
	return m.store
}

// CreateSession appends a new empty session, makes it active and returns its
// id. conversationID may be empty.
func (m *Manager) CreateSession(conversationID string) string {
	now := m.now()
	sess := &Session{
		ID:             uuid.New().String(),
		Title:          DefaultTitle,
		Messages:       []message.Message{},
		CreatedAt:      now,
		UpdatedAt:      now,
		ConversationID: conversationID,
	}
	m.store.appendActive(sess, events.NewSessionCreatedEvent(sess.ID, sess.Title, conversationID))
	return sess.ID
}

// AddMessage appends msg to the session.
func (m *Manager) AddMessage(sessionID string, msg message.Message) error {
	msg = msg.Clone()
	return m.store.mutate(sessionID, func(s *Session) (events.SessionEvent, bool, error) {
		s.Messages = append(s.Messages, msg)
		s.UpdatedAt = m.now()
		return events.NewSessionMessageAddedEvent(s.ID, string(msg.Sender), msg.Content), true, nil
	})
}

// UpdateSessionTitle renames the session.
func (m *Manager) UpdateSessionTitle(sessionID, title string) error {
	return m.store.mutate(sessionID, func(s *Session) (events.SessionEvent, bool, error) {
		s.Title = title
		s.UpdatedAt = m.now()
		return events.NewSessionUpdatedEvent(s.ID, title), true, nil
	})
}

// UpdateSessionConversationID binds the session to a backend conversation.
// Binding the same id again is a no-op; a different id fails with
// ErrConversationPinned.
func (m *Manager) UpdateSessionConversationID(sessionID, conversationID string) error {
	return m.store.mutate(sessionID, func(s *Session) (events.SessionEvent, bool, error) {
		switch s.ConversationID {
		case conversationID:
			return events.SessionEvent{}, false, nil
		case "":
			s.ConversationID = conversationID
			s.UpdatedAt = m.now()
			return events.NewSessionBoundEvent(s.ID, conversationID), true, nil
		default:
			return events.SessionEvent{}, false, ErrConversationPinned
		}
	})
}

// LoadMessagesIntoSession replaces the messages and title of the session, or
// creates a session with this id when there is none. The session becomes
// active either way.
func (m *Manager) LoadMessagesIntoSession(sessionID string, msgs []message.Message, title string) error {
	err := m.ReplaceMessages(sessionID, msgs, title)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	msgs = message.CloneAll(msgs)
	if msgs == nil {
		msgs = []message.Message{}
	}
	now := m.now()
	m.store.appendActive(&Session{
		ID:        sessionID,
		Title:     title,
		Messages:  msgs,
		CreatedAt: now,
		UpdatedAt: now,
	}, events.NewSessionImportedEvent(sessionID, title, len(msgs)))
	return nil
}

// ReplaceMessages replaces the messages and title of an existing session and
// makes it active. A missing session is ErrNotFound and nothing is created.
func (m *Manager) ReplaceMessages(sessionID string, msgs []message.Message, title string) error {
	msgs = message.CloneAll(msgs)
	if msgs == nil {
		msgs = []message.Message{}
	}

	err := m.store.mutate(sessionID, func(s *Session) (events.SessionEvent, bool, error) {
		s.Messages = msgs
		s.Title = title
		s.UpdatedAt = m.now()
		return events.NewSessionImportedEvent(s.ID, title, len(msgs)), true, nil
	})
	if err != nil {
		return err
	}
	return m.store.setActive(sessionID)
}

// ClearMessages empties the session thread. The binding is kept.
func (m *Manager) ClearMessages(sessionID string) error {
	return m.store.mutate(sessionID, func(s *Session) (events.SessionEvent, bool, error) {
		s.Messages = []message.Message{}
		s.UpdatedAt = m.now()
		return events.NewSessionClearedEvent(s.ID), true, nil
	})
}

// SetActiveSession switches the active session.
func (m *Manager) SetActiveSession(sessionID string) error {
	return m.store.setActive(sessionID)
}

// DeleteSession removes the session. If it was active, the first remaining
// session becomes active, or none.
func (m *Manager) DeleteSession(sessionID string) error {
	return m.store.remove(sessionID)
}

// FindByConversation returns the local session bound to conversationID.
func (m *Manager) FindByConversation(conversationID string) (Session, bool) {
	return m.store.FindByConversation(conversationID)
}
