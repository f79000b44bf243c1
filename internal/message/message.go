// Package message defines chat messages and their typed attachments.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender string

// Sender constants.
const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Type is the content kind of a message.
type Type string

// Type constants.
const (
	TypeText  Type = "text"
	TypeImage Type = "image"
	TypeData  Type = "data"
)

// ErrorReply is the fixed text of the AI message appended when a question fails.
const ErrorReply = "Sorry, I encountered an error while processing your request. Please try again."

// ParseType maps a backend message type to a Type. Unknown kinds are text.
func ParseType(s string) Type {
	switch t := Type(s); t {
	case TypeText, TypeImage, TypeData:
		return t
	}
	return TypeText
}

// Message is one entry in a session thread.
type Message struct {
	ID          string
	Content     string
	Sender      Sender
	Type        Type
	Timestamp   time.Time
	Attachments []Attachment

	// Set on replies imported from the backend history.
	ProcessingTime float64 // seconds
	RetrievedDocs  int
}

// NewUserMessage creates a user message. Passing image URLs marks it as an
// image message with one Image attachment per URL.
func NewUserMessage(content string, imageURLs ...string) Message {
	m := Message{
		ID:        uuid.New().String(),
		Content:   content,
		Sender:    SenderUser,
		Type:      TypeText,
		Timestamp: time.Now(),
	}
	for _, url := range imageURLs {
		if url == "" {
			continue
		}
		m.Type = TypeImage
		m.Attachments = append(m.Attachments, Image{URL: url})
	}
	return m
}

// NewAIMessage creates an AI reply with the given attachments. A valid table
// makes it a data message; invalid tables are dropped.
func NewAIMessage(content string, attachments ...Attachment) Message {
	m := Message{
		ID:        uuid.New().String(),
		Content:   content,
		Sender:    SenderAI,
		Type:      TypeText,
		Timestamp: time.Now(),
	}
	for _, a := range attachments {
		if t, ok := a.(Table); ok {
			if t.Validate() != nil {
				continue
			}
			m.Type = TypeData
		}
		m.Attachments = append(m.Attachments, a)
	}
	return m
}

// NewErrorReply creates the synthetic AI message for a failed question.
func NewErrorReply() Message {
	return NewAIMessage(ErrorReply, Alert{Level: AlertError})
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// ImageURL returns the URL of the first image attachment.
func (m Message) ImageURL() string {
	for _, a := range m.Attachments {
		if img, ok := a.(Image); ok {
			return img.URL
		}
	}
	return ""
}

// Table returns the first table attachment.
func (m Message) Table() (TableData, bool) {
	for _, a := range m.Attachments {
		if t, ok := a.(Table); ok {
			return t.TableData, true
		}
	}
	return TableData{}, false
}

// AlertLevel returns the level of the first alert attachment.
func (m Message) AlertLevel() (AlertLevel, bool) {
	for _, a := range m.Attachments {
		if al, ok := a.(Alert); ok {
			return al.Level, true
		}
	}
	return "", false
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	if m.Attachments == nil {
		return m
	}
	atts := make([]Attachment, len(m.Attachments))
	for i, a := range m.Attachments {
		if t, ok := a.(Table); ok {
			a = Table{TableData: t.TableData.Clone()}
		}
		atts[i] = a
	}
	m.Attachments = atts
	return m
}

// CloneAll deep-copies a message slice. A nil input stays nil.
func CloneAll(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
