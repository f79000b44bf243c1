package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/guilhermegouw/agrochat/internal/gateway"
)

var errBackendDown = errors.New("backend down")

// fakeGateway records calls and returns canned results.
type fakeGateway struct {
	mu sync.Mutex

	createID  string
	createErr error

	conversations []gateway.Conversation
	listErr       error

	history      *gateway.History
	historyErr   error
	historyBlock chan struct{}
	// historyDeaf keeps a blocked History waiting past cancellation.
	historyDeaf  bool
	historyCalls int

	answer    *gateway.Answer
	askErr    error
	askBlock  chan struct{}
	asked     []gateway.AskRequest
	followUps []string

	clearOK   bool
	clearErr  error
	cleared   []string
	deleteOK  bool
	deleteErr error
	deleted   []string
}

func (f *fakeGateway) CreateConversation(_ context.Context, _ string) (string, error) {
	return f.createID, f.createErr
}

func (f *fakeGateway) ListConversations(_ context.Context, _ string, _ int) ([]gateway.Conversation, error) {
	return f.conversations, f.listErr
}

func (f *fakeGateway) History(ctx context.Context, _ string) (*gateway.History, error) {
	f.mu.Lock()
	f.historyCalls++
	block, deaf := f.historyBlock, f.historyDeaf
	f.mu.Unlock()

	if block != nil {
		if deaf {
			<-block
		} else {
			select {
			case <-block:
			case <-ctx.Done():
				return nil, &gateway.NetworkError{Op: "history", Err: ctx.Err()}
			}
		}
	}
	return f.history, f.historyErr
}

func (f *fakeGateway) historyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyCalls
}

func (f *fakeGateway) Ask(ctx context.Context, req gateway.AskRequest) (*gateway.Answer, error) {
	f.mu.Lock()
	f.asked = append(f.asked, req)
	block := f.askBlock
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &gateway.NetworkError{Op: "ask", Err: ctx.Err()}
		}
	}
	if f.askErr != nil {
		return nil, f.askErr
	}
	ans := *f.answer
	return &ans, nil
}

func (f *fakeGateway) FollowUp(ctx context.Context, conversationID string, req gateway.AskRequest) (*gateway.Answer, error) {
	f.mu.Lock()
	f.followUps = append(f.followUps, conversationID)
	f.mu.Unlock()
	return f.Ask(ctx, req)
}

func (f *fakeGateway) ClearMessages(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	return f.clearOK, f.clearErr
}

func (f *fakeGateway) DeleteConversation(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteOK, f.deleteErr
}

func (f *fakeGateway) askCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.asked)
}
