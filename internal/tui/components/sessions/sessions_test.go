package sessions

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/session"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

// run executes cmd and returns its message, nil for a nil command.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func testSessions() []session.Session {
	now := time.Now()
	return []session.Session{
		{ID: "s1", Title: "Soil", UpdatedAt: now, Messages: []message.Message{message.NewUserMessage("pH is 5.2\nwhat now?")}},
		{ID: "s2", Title: "Maize", UpdatedAt: now, ConversationID: "conv-2"},
		{ID: "s3", Title: "Tomatoes", UpdatedAt: now},
	}
}

func newSidebar() *Sidebar {
	s := NewSidebar("")
	s.SetSize(32, 24)
	s.SetSessions(testSessions(), "s2")
	return s
}

func TestSessionListFollowsActive(t *testing.T) {
	l := NewSessionList()
	l.SetSize(30, 20)
	l.SetSessions(testSessions(), "s3")

	if sel, _ := l.Selected(); sel.ID != "s3" {
		t.Errorf("cursor should start on the active session, got %q", sel.ID)
	}

	l.Update(key("up"))
	l.SetSessions(testSessions(), "s3")
	if sel, _ := l.Selected(); sel.ID != "s2" {
		t.Errorf("refresh without an active change must keep the cursor, got %q", sel.ID)
	}

	l.SetSessions(testSessions()[:1], "s1")
	if sel, _ := l.Selected(); sel.ID != "s1" {
		t.Errorf("cursor should clamp to the shorter list, got %q", sel.ID)
	}
}

func TestSessionListEnterSelects(t *testing.T) {
	l := NewSessionList()
	l.SetSize(30, 20)
	l.SetSessions(testSessions(), "s1")
	l.Update(key("down"))

	_, cmd := l.Update(key("enter"))
	msg, ok := run(cmd).(SessionSelectedMsg)
	if !ok || msg.SessionID != "s2" {
		t.Errorf("expected SessionSelectedMsg for s2, got %#v", run(cmd))
	}
}

func TestSessionListView(t *testing.T) {
	l := NewSessionList()
	l.SetSize(40, 30)

	if !strings.Contains(l.View(), "No chats yet") {
		t.Error("empty list should show the empty state")
	}

	l.SetSessions(testSessions(), "s1")
	view := l.View()
	for _, want := range []string{"Soil", "Maize", "pH is 5.2 what now?", "synced", "(no messages)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSidebarActions(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{key: "n", want: NewSessionMsg{}},
		{key: "o", want: OpenConversationsMsg{}},
		{key: "e", want: ExportSessionMsg{SessionID: "s2", Format: "md"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := newSidebar()
			_, cmd := s.Update(key(tt.key))
			if got := run(cmd); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSidebarDeleteConfirm(t *testing.T) {
	t.Run("y deletes the selected session", func(t *testing.T) {
		s := newSidebar()
		s.Update(key("d"))
		if s.Step() != StepConfirmDelete || !s.Capturing() {
			t.Fatalf("expected delete confirmation, step=%v", s.Step())
		}
		if !strings.Contains(s.View(), "Delete chat?") {
			t.Error("confirmation prompt not rendered")
		}

		_, cmd := s.Update(key("y"))
		if got := run(cmd); got != (DeleteConfirmedMsg{SessionID: "s2"}) {
			t.Errorf("got %#v", got)
		}
		if s.Step() != StepList {
			t.Error("sidebar should return to the list")
		}
	})

	t.Run("n cancels", func(t *testing.T) {
		s := newSidebar()
		s.Update(key("d"))
		_, cmd := s.Update(key("n"))
		if cmd != nil || s.Step() != StepList {
			t.Errorf("cancel should emit nothing, step=%v", s.Step())
		}
	})

	t.Run("target removed elsewhere aborts", func(t *testing.T) {
		s := newSidebar()
		s.Update(key("d"))
		s.SetSessions(testSessions()[:1], "s1")
		if s.Step() != StepList {
			t.Error("confirmation for a vanished session should be dropped")
		}
	})
}

func TestSidebarClearConfirm(t *testing.T) {
	s := newSidebar()
	s.Update(key("c"))
	if s.Step() != StepConfirmClear {
		t.Fatalf("step = %v", s.Step())
	}
	_, cmd := s.Update(key("y"))
	if got := run(cmd); got != (ClearConfirmedMsg{SessionID: "s2"}) {
		t.Errorf("got %#v", got)
	}
}

func TestSidebarRename(t *testing.T) {
	t.Run("enter submits the edited title", func(t *testing.T) {
		s := newSidebar()
		s.Update(key("r"))
		if s.Step() != StepRename {
			t.Fatalf("step = %v", s.Step())
		}
		s.Update(key("X"))

		_, cmd := s.Update(key("enter"))
		got, ok := run(cmd).(RenameConfirmedMsg)
		if !ok || got.SessionID != "s2" || got.Title != "MaizeX" {
			t.Errorf("got %#v", run(cmd))
		}
	})

	t.Run("esc cancels", func(t *testing.T) {
		s := newSidebar()
		s.Update(key("r"))
		_, cmd := s.Update(key("esc"))
		if cmd != nil || s.Step() != StepList {
			t.Error("esc should cancel the rename")
		}
	})
}

func TestPicker(t *testing.T) {
	convs := []gateway.Conversation{
		{ID: "c1", Title: "Rice blast", UpdatedAt: time.Now()},
		{ID: "c2", Title: "", UpdatedAt: time.Now()},
	}

	t.Run("loading then choose", func(t *testing.T) {
		p := NewPicker()
		p.SetSize(100, 30)
		p.Open()
		if !strings.Contains(p.View(), "Loading conversations") {
			t.Error("picker should show loading state")
		}
		if _, cmd := p.Update(key("enter")); cmd != nil {
			t.Error("enter while loading must do nothing")
		}

		p.SetConversations(ConversationsLoadedMsg{Conversations: convs})
		view := p.View()
		if !strings.Contains(view, "Rice blast") || !strings.Contains(view, "Untitled") {
			t.Errorf("view missing conversations:\n%s", view)
		}

		p.Update(key("down"))
		_, cmd := p.Update(key("enter"))
		got, ok := run(cmd).(ConversationChosenMsg)
		if !ok || got.Conversation.ID != "c2" {
			t.Errorf("got %#v", run(cmd))
		}
		if p.IsVisible() {
			t.Error("choosing should close the picker")
		}
	})

	t.Run("clear and reload", func(t *testing.T) {
		p := NewPicker()
		p.Open()
		p.SetConversations(ConversationsLoadedMsg{Conversations: convs})

		_, cmd := p.Update(key("c"))
		if got := run(cmd); got != (ClearRemoteMsg{ConversationID: "c1"}) {
			t.Errorf("got %#v", got)
		}
		_, cmd = p.Update(key("r"))
		if got := run(cmd); got != (OpenConversationsMsg{}) {
			t.Errorf("got %#v", got)
		}
	})

	t.Run("error and esc", func(t *testing.T) {
		p := NewPicker()
		p.SetSize(100, 30)
		p.Open()
		p.SetConversations(ConversationsLoadedMsg{Err: errors.New("connection refused")})
		if !strings.Contains(p.View(), "connection refused") {
			t.Error("error should be shown")
		}
		_, cmd := p.Update(key("esc"))
		if got := run(cmd); got != (ModalClosedMsg{}) || p.IsVisible() {
			t.Errorf("esc should close, got %#v", got)
		}
	})
}

func TestSidebarFrame(t *testing.T) {
	s := newSidebar()
	view := s.View()

	if !strings.Contains(view, "Chats (3)") {
		t.Errorf("title missing:\n%s", view)
	}
	if !strings.Contains(view, "2 local") {
		t.Errorf("local badge missing:\n%s", view)
	}

	lines := strings.Split(view, "\n")
	// Frame rows plus the hint bar.
	if len(lines) != 24 {
		t.Errorf("sidebar height = %d, want 24", len(lines))
	}
	for i, line := range lines[:len(lines)-1] {
		if w := lipgloss.Width(line); w != 32 {
			t.Errorf("line %d width = %d, want 32: %q", i, w, line)
		}
	}

	s.SetSessions([]session.Session{{ID: "s2", Title: "Maize", ConversationID: "conv-2"}}, "s2")
	if strings.Contains(s.View(), "local") {
		t.Error("badge should hide when every chat is synced")
	}
}
