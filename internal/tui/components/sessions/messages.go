// Package sessions renders the session sidebar and the backend conversation
// picker.
package sessions

import "github.com/guilhermegouw/agrochat/internal/gateway"

// SessionSelectedMsg is sent when a session is opened from the sidebar.
type SessionSelectedMsg struct {
	SessionID string
}

// NewSessionMsg is sent to start a new chat.
type NewSessionMsg struct{}

// RenameConfirmedMsg is sent when a rename is submitted.
type RenameConfirmedMsg struct {
	SessionID string
	Title     string
}

// DeleteConfirmedMsg is sent when deletion of a session is confirmed.
type DeleteConfirmedMsg struct {
	SessionID string
}

// ClearConfirmedMsg is sent when clearing a session's messages is confirmed.
type ClearConfirmedMsg struct {
	SessionID string
}

// ExportSessionMsg is sent to export a session to a file.
type ExportSessionMsg struct {
	SessionID string
	Format    string
}

// OpenConversationsMsg asks the parent to load backend conversations.
type OpenConversationsMsg struct{}

// ConversationsLoadedMsg carries the result of listing backend conversations.
type ConversationsLoadedMsg struct {
	Conversations []gateway.Conversation
	Err           error
}

// ConversationChosenMsg is sent when a backend conversation is picked.
type ConversationChosenMsg struct {
	Conversation gateway.Conversation
}

// ClearRemoteMsg asks to clear a backend conversation's history.
type ClearRemoteMsg struct {
	ConversationID string
}

// ModalClosedMsg is sent when the picker is closed.
type ModalClosedMsg struct{}
