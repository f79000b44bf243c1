package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/session"
)

// errNotAcknowledged marks backend calls that returned without error but
// did not report success.
var errNotAcknowledged = errors.New("backend did not acknowledge the request")

// NewChat creates a backend conversation and a local session bound to it.
// If the backend call fails, an unbound local session is created instead.
func (o *Orchestrator) NewChat(ctx context.Context) string {
	reqCtx, done := o.inflight.begin(ctx, "", events.RequestCreate)
	convID, err := o.gw.CreateConversation(reqCtx, NewChatTitle)
	done(err)

	if err != nil {
		o.logger.Warn("create conversation failed, using local session", zap.Error(err))
		id := o.sessions.CreateSession("")
		o.notify(events.NoticeError, "Error", "Failed to create new chat. Using local session instead.", id)
		return id
	}

	id := o.sessions.CreateSession(convID)
	o.notify(events.NoticeSuccess, "New chat created", "Ready to start chatting!", id)
	return id
}

// SelectSession makes a local session active.
func (o *Orchestrator) SelectSession(sessionID string) error {
	return o.sessions.SetActiveSession(sessionID)
}

// RenameSession sets a user-chosen title.
func (o *Orchestrator) RenameSession(sessionID, title string) error {
	if err := o.sessions.UpdateSessionTitle(sessionID, title); err != nil {
		return err
	}
	o.notify(events.NoticeSuccess, "Session renamed", "Your chat session has been renamed successfully.", sessionID)
	return nil
}

// ListBackendConversations lists conversations persisted by the backend.
func (o *Orchestrator) ListBackendConversations(ctx context.Context) ([]gateway.Conversation, error) {
	reqCtx, done := o.inflight.begin(ctx, "", events.RequestList)
	convs, err := o.gw.ListConversations(reqCtx, o.userID, o.limit)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// SelectBackendConversation opens a backend conversation in a new local
// session and imports its history. An older local session bound to the same
// conversation is removed first, so the conversation is never tracked twice,
// and an info notice says so. When the history fetch fails the new session
// stays empty, an error notice is published and the error is returned. If the
// new session is deleted before the history arrives, the import is dropped.
func (o *Orchestrator) SelectBackendConversation(ctx context.Context, conv gateway.Conversation) (string, error) {
	replaced := false
	if prev, ok := o.sessions.FindByConversation(conv.ID); ok {
		o.inflight.cancelSession(prev.ID)
		if err := o.ignoreGone("replace session", prev.ID, o.sessions.DeleteSession(prev.ID)); err != nil {
			return "", err
		}
		replaced = true
	}

	id := o.sessions.CreateSession(conv.ID)
	if replaced {
		o.notify(events.NoticeInfo, "Conversation reopened",
			"The earlier chat for this conversation was replaced by the server history.", id)
	}

	reqCtx, done := o.inflight.begin(ctx, id, events.RequestHistory)
	hist, err := o.gw.History(reqCtx, conv.ID)
	abandoned := reqCtx.Err() != nil && ctx.Err() == nil
	done(err)

	if abandoned {
		o.logger.Debug("dropping history for cancelled session", zap.String("session", id), zap.Error(err))
		return id, nil
	}
	if err != nil {
		o.logger.Error("load history failed", zap.String("conversation", conv.ID), zap.Error(err))
		o.notify(events.NoticeError, "Error", "Failed to load conversation history", id)
		return id, fmt.Errorf("load history: %w", err)
	}

	title := conv.Title
	if title == "" {
		title = importedTitle
	}
	// ReplaceMessages never recreates a session deleted while the fetch ran.
	err = o.sessions.ReplaceMessages(id, gateway.ToMessages(hist.Messages), title)
	return id, o.ignoreGone("import history", id, err)
}

// DeleteSession deletes the backend conversation of a bound session, then
// the local session whatever the backend said. In-flight requests of the
// session are cancelled. A backend failure only produces a warning.
func (o *Orchestrator) DeleteSession(ctx context.Context, sessionID string) error {
	s, err := o.sessions.Store().Get(sessionID)
	if err != nil {
		return o.ignoreGone("delete session", sessionID, err)
	}

	if n := o.inflight.cancelSession(sessionID); n > 0 {
		o.logger.Debug("cancelled in-flight requests", zap.String("session", sessionID), zap.Int("count", n))
	}

	if s.Bound() {
		reqCtx, done := o.inflight.begin(ctx, "", events.RequestDelete)
		ok, err := o.gw.DeleteConversation(reqCtx, s.ConversationID)
		if err == nil && !ok {
			err = errNotAcknowledged
		}
		done(err)
		if err != nil {
			o.logger.Warn("backend delete failed", zap.String("conversation", s.ConversationID), zap.Error(err))
			o.notify(events.NoticeWarning, "Warning", "Session deleted locally but failed to delete from server.", sessionID)
		}
	}

	if err := o.ignoreGone("delete session", sessionID, o.sessions.DeleteSession(sessionID)); err != nil {
		return err
	}
	o.notify(events.NoticeInfo, "Session deleted", "Your chat session has been deleted.", sessionID)
	return nil
}

// ClearConversation clears the backend messages of a bound session, then
// the local thread whatever the backend said. The binding is kept.
func (o *Orchestrator) ClearConversation(ctx context.Context, sessionID string) error {
	s, err := o.sessions.Store().Get(sessionID)
	if err != nil {
		return o.ignoreGone("clear conversation", sessionID, err)
	}

	if s.Bound() {
		reqCtx, done := o.inflight.begin(ctx, sessionID, events.RequestClear)
		ok, err := o.gw.ClearMessages(reqCtx, s.ConversationID)
		if err == nil && !ok {
			err = errNotAcknowledged
		}
		done(err)
		if err != nil {
			o.logger.Warn("backend clear failed", zap.String("conversation", s.ConversationID), zap.Error(err))
			o.notify(events.NoticeWarning, "Warning", "Messages cleared locally but failed to clear from server.", sessionID)
		}
	}

	if err := o.ignoreGone("clear conversation", sessionID, o.sessions.ClearMessages(sessionID)); err != nil {
		return err
	}
	o.notify(events.NoticeSuccess, "Conversation cleared", "All messages have been cleared.", sessionID)
	return nil
}

// ClearBackendConversation clears a backend conversation that may have no
// local session. Local sessions bound to it are cleared as well.
func (o *Orchestrator) ClearBackendConversation(ctx context.Context, conversationID string) error {
	reqCtx, done := o.inflight.begin(ctx, "", events.RequestClear)
	ok, err := o.gw.ClearMessages(reqCtx, conversationID)
	if err == nil && !ok {
		err = errNotAcknowledged
	}
	done(err)
	if err != nil {
		o.notify(events.NoticeError, "Error", "Failed to clear conversation history.", "")
		return fmt.Errorf("clear conversation %s: %w", conversationID, err)
	}

	if s, found := o.sessions.FindByConversation(conversationID); found {
		if err := o.sessions.ClearMessages(s.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
	}
	o.notify(events.NoticeSuccess, "Conversation cleared", "Chat messages have been cleared.", "")
	return nil
}
