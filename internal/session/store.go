package session

import (
	"sync"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
)

// Store holds the ordered session list and the active id. Readers get deep
// copies. Writes are unexported: they go through Manager and each one
// publishes a SessionEvent.
type Store struct {
	sessions []*Session
	active   string
	broker   pubsub.Publisher[events.SessionEvent]
	mu       sync.RWMutex
}

// NewStore creates an empty store. broker may be nil.
func NewStore(broker pubsub.Publisher[events.SessionEvent]) *Store {
	return &Store{broker: broker}
}

// Sessions returns all sessions in list order.
func (s *Store) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Get returns a session by ID.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.sessions[i].Clone(), nil
	}
	return Session{}, ErrNotFound
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(s.active); i >= 0 {
		return s.sessions[i].Clone(), true
	}
	return Session{}, false
}

// ActiveID returns the active session id, empty for none.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// FindByConversation returns the session bound to a backend conversation.
func (s *Store) FindByConversation(conversationID string) (Session, bool) {
	if conversationID == "" {
		return Session{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.ConversationID == conversationID {
			return sess.Clone(), true
		}
	}
	return Session{}, false
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, sess := range s.sessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

// appendActive adds sess at the end of the list and makes it active.
func (s *Store) appendActive(sess *Session, ev events.SessionEvent) {
	s.mu.Lock()
	s.sessions = append(s.sessions, sess)
	s.active = sess.ID
	s.mu.Unlock()

	s.publish(pubsub.EventCreated, ev)
}

// mutate runs fn on the session under the write lock. fn returns the event
// to publish, or ok=false to publish nothing.
func (s *Store) mutate(id string, fn func(*Session) (events.SessionEvent, bool, error)) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	ev, ok, err := fn(s.sessions[i])
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if ok {
		s.publish(pubsub.EventUpdated, ev)
	}
	return nil
}

// remove deletes a session. The active id falls back to the first remaining
// session when the removed one was active.
func (s *Store) remove(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	if s.active == id {
		s.active = ""
		if len(s.sessions) > 0 {
			s.active = s.sessions[0].ID
		}
	}
	active := s.active
	s.mu.Unlock()

	s.publish(pubsub.EventDeleted, events.NewSessionDeletedEvent(id, active))
	return nil
}

func (s *Store) setActive(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.active = id
	title := s.sessions[i].Title
	s.mu.Unlock()

	s.publish(pubsub.EventUpdated, events.NewSessionSwitchedEvent(id, title))
	return nil
}

func (s *Store) publish(t pubsub.EventType, ev events.SessionEvent) {
	if s.broker != nil {
		s.broker.Publish(t, ev)
	}
}
