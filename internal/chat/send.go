package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/guilhermegouw/agrochat/internal/attachment"
	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/session"
)

const askFailedNotice = "Failed to get response from AI advisor. Please try again."

// SendMessage submits a question for the current session.
//
// The user message is appended before the backend is called. A bound
// session asks a follow-up, an unbound one asks and binds the returned
// conversation id. Backend failures never escape: an error notice is
// published and a synthetic AI reply is appended instead. The returned
// message is the AI reply that was appended.
func (o *Orchestrator) SendMessage(ctx context.Context, text string, uploads ...attachment.Upload) (message.Message, error) {
	if err := ValidateQuestion(text); err != nil {
		return message.Message{}, err
	}

	cur, ok := o.sessions.Store().Current()
	if !ok {
		id := o.sessions.CreateSession("")
		o.logger.Debug("send without session, started one", zap.String("session", id))
		return message.Message{}, ErrSessionStarted
	}

	question := strings.TrimSpace(text)
	firstExchange := len(cur.Messages) == 0

	if err := o.sessions.AddMessage(cur.ID, message.NewUserMessage(question, attachment.LocalURLs(uploads)...)); err != nil {
		return message.Message{}, err
	}

	req := gateway.AskRequest{Question: question}
	if len(uploads) > 0 {
		req.Images = attachment.DataURLs(uploads)
	}

	kind := events.RequestAsk
	if cur.Bound() {
		kind = events.RequestFollowUp
	}
	reqCtx, done := o.inflight.begin(ctx, cur.ID, kind)

	var ans *gateway.Answer
	var err error
	if cur.Bound() {
		ans, err = o.gw.FollowUp(reqCtx, cur.ConversationID, req)
	} else {
		ans, err = o.gw.Ask(reqCtx, req)
	}
	abandoned := reqCtx.Err() != nil && ctx.Err() == nil
	done(err)

	if abandoned {
		// The session was deleted while the request was in flight.
		o.logger.Debug("dropping reply for cancelled session", zap.String("session", cur.ID), zap.Error(err))
		return message.Message{}, nil
	}
	if err != nil {
		return o.failReply(cur.ID, kind, err), nil
	}

	reply := message.NewAIMessage(ans.Text, ans.Attachments()...)
	if err := o.ignoreGone("add reply", cur.ID, o.sessions.AddMessage(cur.ID, reply)); err != nil {
		return reply, err
	}

	if !cur.Bound() && ans.ConversationID != "" {
		err := o.sessions.UpdateSessionConversationID(cur.ID, ans.ConversationID)
		if errors.Is(err, session.ErrConversationPinned) {
			o.logger.Warn("session already bound, keeping original conversation",
				zap.String("session", cur.ID), zap.String("conversation", ans.ConversationID))
			err = nil
		}
		if err := o.ignoreGone("bind conversation", cur.ID, err); err != nil {
			return reply, err
		}
	}

	if firstExchange {
		if err := o.ignoreGone("derive title", cur.ID, o.sessions.UpdateSessionTitle(cur.ID, DeriveTitle(question))); err != nil {
			return reply, err
		}
	}

	return reply, nil
}

func (o *Orchestrator) failReply(sessionID string, kind events.RequestKind, err error) message.Message {
	o.logger.Error("question failed",
		zap.String("session", sessionID), zap.String("kind", string(kind)), zap.Error(err))

	reply := message.NewErrorReply()
	o.notify(events.NoticeError, "Error", askFailedNotice, sessionID)
	_ = o.ignoreGone("add error reply", sessionID, o.sessions.AddMessage(sessionID, reply))
	return reply
}
