package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/agrochat/internal/debug"
	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
)

// Sender is the part of tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIBridge subscribes to all Hub brokers and forwards events to tea.Program.
// It handles the conversion from domain events to Bubble Tea messages.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub     *pubsub.Hub
	program Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program Sender) *TUIBridge {
	return &TUIBridge{
		hub:     hub,
		program: program,
	}
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	sessions := b.hub.Session.Subscribe(b.ctx)
	requests := b.hub.Request.Subscribe(b.ctx)
	notices := b.hub.Notice.Subscribe(b.ctx)

	b.wg.Add(3)
	go forward(b, sessions, func(e pubsub.Event[events.SessionEvent]) tea.Msg {
		return SessionEventMsg{Event: e}
	})
	go forward(b, requests, func(e pubsub.Event[events.RequestEvent]) tea.Msg {
		return RequestEventMsg{Event: e}
	})
	go forward(b, notices, func(e pubsub.Event[events.Notice]) tea.Msg {
		return NoticeMsg{Event: e}
	})

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

// forward relays one broker until the bridge stops or the broker closes.
func forward[T any](b *TUIBridge, ch <-chan pubsub.Event[T], wrap func(pubsub.Event[T]) tea.Msg) {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.program.Send(wrap(event))
		}
	}
}
