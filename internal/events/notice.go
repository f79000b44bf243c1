package events

import "time"

// NoticeLevel is the severity of a user-visible notification.
type NoticeLevel string

// Notice levels.
const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a toast-style notification for the presentation layer.
type Notice struct {
	Level     NoticeLevel
	Title     string
	Message   string
	SessionID string
	Timestamp time.Time
}

// NewNotice creates a notice for the given level.
func NewNotice(level NoticeLevel, title, message string) Notice {
	return Notice{
		Level:     level,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ForSession returns a copy of n scoped to a session.
func (n Notice) ForSession(sessionID string) Notice {
	n.SessionID = sessionID
	return n
}
