package events

import "time"

// SessionEventType represents session-specific event types.
type SessionEventType string

// Session event type constants.
const (
	SessionEventCreated      SessionEventType = "created"
	SessionEventUpdated      SessionEventType = "updated"
	SessionEventDeleted      SessionEventType = "deleted"
	SessionEventSwitched     SessionEventType = "switched"
	SessionEventMessageAdded SessionEventType = "message_added"
	SessionEventCleared      SessionEventType = "cleared"
	SessionEventBound        SessionEventType = "bound"
	SessionEventImported     SessionEventType = "imported"
)

// SessionEvent is published by the session store after every write.
type SessionEvent struct {
	SessionID string
	Title     string
	Type      SessionEventType
	Timestamp time.Time

	// ActiveID is the active session after the write, empty for none.
	ActiveID string

	// Optional fields
	ConversationID string // For Bound and Created
	MessageSender  string // For MessageAdded
	MessageText    string // For MessageAdded
	MessageCount   int    // For Imported
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(id, title, conversationID string) SessionEvent {
	return SessionEvent{
		SessionID:      id,
		Title:          title,
		Type:           SessionEventCreated,
		ActiveID:       id,
		ConversationID: conversationID,
		Timestamp:      time.Now(),
	}
}

// NewSessionUpdatedEvent creates a session updated event (rename).
func NewSessionUpdatedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventUpdated,
		Timestamp: time.Now(),
	}
}

// NewSessionSwitchedEvent creates a session switched event.
func NewSessionSwitchedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventSwitched,
		ActiveID:  id,
		Timestamp: time.Now(),
	}
}

// NewSessionDeletedEvent creates a session deleted event. activeID is the
// session that became active as a result, or empty.
func NewSessionDeletedEvent(id, activeID string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Type:      SessionEventDeleted,
		ActiveID:  activeID,
		Timestamp: time.Now(),
	}
}

// NewSessionClearedEvent creates a session cleared event.
func NewSessionClearedEvent(id string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Type:      SessionEventCleared,
		Timestamp: time.Now(),
	}
}

// NewSessionBoundEvent creates an event for a session pinned to a backend conversation.
func NewSessionBoundEvent(id, conversationID string) SessionEvent {
	return SessionEvent{
		SessionID:      id,
		Type:           SessionEventBound,
		ConversationID: conversationID,
		Timestamp:      time.Now(),
	}
}

// NewSessionImportedEvent creates an event for backend history folded into a session.
func NewSessionImportedEvent(id, title string, count int) SessionEvent {
	return SessionEvent{
		SessionID:    id,
		Title:        title,
		Type:         SessionEventImported,
		ActiveID:     id,
		MessageCount: count,
		Timestamp:    time.Now(),
	}
}

// NewSessionMessageAddedEvent creates a message added event.
func NewSessionMessageAddedEvent(sessionID, sender, text string) SessionEvent {
	return SessionEvent{
		SessionID:     sessionID,
		Type:          SessionEventMessageAdded,
		MessageSender: sender,
		MessageText:   text,
		Timestamp:     time.Now(),
	}
}
