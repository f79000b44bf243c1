// Package chat sequences user actions against the session manager and the
// backend gateway, applying the fallback and notification policy.
package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
	"github.com/guilhermegouw/agrochat/internal/session"
)

// NewChatTitle is the title of conversations created by NewChat.
const NewChatTitle = session.DefaultTitle

// importedTitle is used for backend conversations without a title.
const importedTitle = "Backend Conversation"

// ErrSessionStarted is returned by SendMessage when there was no current
// session: one is created and the message is dropped.
var ErrSessionStarted = errors.New("no active session: started a new one, message dropped")

// Gateway is the backend surface the orchestrator needs.
type Gateway interface {
	CreateConversation(ctx context.Context, title string) (string, error)
	ListConversations(ctx context.Context, userID string, limit int) ([]gateway.Conversation, error)
	History(ctx context.Context, conversationID string) (*gateway.History, error)
	Ask(ctx context.Context, req gateway.AskRequest) (*gateway.Answer, error)
	FollowUp(ctx context.Context, conversationID string, req gateway.AskRequest) (*gateway.Answer, error)
	ClearMessages(ctx context.Context, conversationID string) (bool, error)
	DeleteConversation(ctx context.Context, conversationID string) (bool, error)
}

// Orchestrator is the page-level controller of the chat client.
type Orchestrator struct {
	gw       Gateway
	sessions *session.Manager
	logger   *zap.Logger
	notices  pubsub.Publisher[events.Notice]
	inflight *tracker

	userID string
	limit  int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHub publishes notices and request transitions on the hub.
func WithHub(h *pubsub.Hub) Option {
	return func(o *Orchestrator) {
		if h == nil {
			return
		}
		o.notices = h.Notice
		o.inflight.publisher = h.Request
	}
}

// WithUserID scopes conversation listing to a user.
func WithUserID(id string) Option {
	return func(o *Orchestrator) {
		o.userID = id
	}
}

// WithConversationLimit sets how many backend conversations are listed.
func WithConversationLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.limit = n
		}
	}
}

// New creates an orchestrator.
func New(gw Gateway, sessions *session.Manager, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gw:       gw,
		sessions: sessions,
		logger:   zap.NewNop(),
		inflight: newTracker(),
		limit:    10,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sessions returns the session manager.
func (o *Orchestrator) Sessions() *session.Manager {
	return o.sessions
}

// Loading reports whether any tracked request is in flight.
func (o *Orchestrator) Loading() bool {
	return o.inflight.loading()
}

// Pending returns the number of in-flight requests.
func (o *Orchestrator) Pending() int {
	return o.inflight.count()
}

func (o *Orchestrator) notify(level events.NoticeLevel, title, msg, sessionID string) {
	o.logger.Debug("notice",
		zap.String("level", string(level)), zap.String("title", title),
		zap.String("message", msg), zap.String("session", sessionID))
	if o.notices != nil {
		o.notices.Publish(pubsub.EventNotified, events.NewNotice(level, title, msg).ForSession(sessionID))
	}
}

// ignoreGone turns ErrNotFound into a logged no-op. A session deleted while
// its request was in flight lands here.
func (o *Orchestrator) ignoreGone(op, sessionID string, err error) error {
	if errors.Is(err, session.ErrNotFound) {
		o.logger.Debug("session gone, dropping write", zap.String("op", op), zap.String("session", sessionID))
		return nil
	}
	return err
}
