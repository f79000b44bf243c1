package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
)

// mockProgram captures messages sent via Send().
type mockProgram struct {
	mu       sync.Mutex
	messages []tea.Msg
}

func newMockProgram() *mockProgram {
	return &mockProgram{
		messages: make([]tea.Msg, 0),
	}
}

func (m *mockProgram) Send(msg tea.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockProgram) Messages() []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]tea.Msg, len(m.messages))
	copy(result, m.messages)
	return result
}

// waitFor polls until n messages arrived or the deadline passes.
func (m *mockProgram) waitFor(t *testing.T, n int) []tea.Msg {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if msgs := m.Messages(); len(msgs) >= n {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}
	msgs := m.Messages()
	t.Fatalf("expected %d messages, got %d: %v", n, len(msgs), msgs)
	return nil
}

func startBridge(t *testing.T) (*pubsub.Hub, *mockProgram, *TUIBridge) {
	t.Helper()
	hub := pubsub.NewHub()
	mock := newMockProgram()
	bridge := NewTUIBridge(hub, mock)
	bridge.Start(context.Background())
	t.Cleanup(func() {
		bridge.Stop()
		hub.Shutdown()
	})
	return hub, mock, bridge
}

func TestNewTUIBridge(t *testing.T) {
	t.Run("creates bridge with hub and program", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		program := tea.NewProgram(nil)
		bridge := NewTUIBridge(hub, program)

		if bridge.hub != hub {
			t.Error("hub mismatch")
		}
		if bridge.program != program {
			t.Error("program mismatch")
		}
	})
}

func TestTUIBridgeStartStop(t *testing.T) {
	t.Run("start and stop lifecycle", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		bridge := NewTUIBridge(hub, newMockProgram())
		bridge.Start(context.Background())
		bridge.Stop()

		// Should be safe to stop again
		bridge.Stop()
	})

	t.Run("stop without start is safe", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		NewTUIBridge(hub, newMockProgram()).Stop()
	})

	t.Run("hub shutdown ends the forwarders", func(t *testing.T) {
		hub := pubsub.NewHub()
		bridge := NewTUIBridge(hub, newMockProgram())
		bridge.Start(context.Background())

		hub.Shutdown()

		done := make(chan struct{})
		go func() {
			bridge.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("forwarders did not exit after hub shutdown")
		}
		bridge.Stop()
	})
}

func TestTUIBridgeForwardsEveryBroker(t *testing.T) {
	hub, mock, _ := startBridge(t)

	hub.Session.Publish(pubsub.EventCreated, events.NewSessionCreatedEvent("s1", "New Chat", ""))
	hub.Request.Publish(pubsub.EventStarted, events.NewRequestPendingEvent("r1", "s1", events.RequestAsk))
	hub.Notice.Publish(pubsub.EventNotified, events.NewNotice(events.NoticeSuccess, "New chat created", "Ready to start chatting!"))

	msgs := mock.waitFor(t, 3)

	var gotSession, gotRequest, gotNotice bool
	for _, msg := range msgs {
		switch m := msg.(type) {
		case SessionEventMsg:
			gotSession = m.Event.Payload.SessionID == "s1"
		case RequestEventMsg:
			gotRequest = m.Event.Payload.Loading && m.Event.Type == pubsub.EventStarted
		case NoticeMsg:
			gotNotice = m.Event.Payload.Title == "New chat created"
		default:
			t.Errorf("unexpected message type %T", msg)
		}
	}
	if !gotSession || !gotRequest || !gotNotice {
		t.Errorf("session=%v request=%v notice=%v", gotSession, gotRequest, gotNotice)
	}
}

func TestTUIBridgeReplaysLoadingState(t *testing.T) {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	hub.Request.Publish(pubsub.EventStarted, events.NewRequestPendingEvent("r1", "s1", events.RequestAsk))

	mock := newMockProgram()
	bridge := NewTUIBridge(hub, mock)
	bridge.Start(context.Background())
	defer bridge.Stop()

	msgs := mock.waitFor(t, 1)
	req, ok := msgs[0].(RequestEventMsg)
	if !ok || !req.Event.Payload.Loading {
		t.Errorf("late subscriber should see the pending request, got %v", msgs[0])
	}
}

func TestTUIBridgeForwardsEverySession(t *testing.T) {
	hub, mock, _ := startBridge(t)

	hub.Notice.Publish(pubsub.EventNotified, events.NewNotice(events.NoticeInfo, "Session deleted", "gone").ForSession("s2"))
	hub.Notice.Publish(pubsub.EventNotified, events.NewNotice(events.NoticeSuccess, "New chat created", "ready").ForSession("s1"))

	msgs := mock.waitFor(t, 2)
	seen := map[string]bool{}
	for _, msg := range msgs {
		if n, ok := msg.(NoticeMsg); ok {
			seen[n.Event.Payload.SessionID] = true
		}
	}
	if !seen["s1"] || !seen["s2"] {
		t.Errorf("notices for every session should reach the TUI, got %v", msgs)
	}
}
