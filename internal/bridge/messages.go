// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
)

// SessionEventMsg wraps a session store event for the TUI.
type SessionEventMsg struct {
	Event pubsub.Event[events.SessionEvent]
}

// RequestEventMsg wraps a backend request transition for the TUI.
type RequestEventMsg struct {
	Event pubsub.Event[events.RequestEvent]
}

// NoticeMsg wraps a user-visible notification for the TUI.
type NoticeMsg struct {
	Event pubsub.Event[events.Notice]
}
