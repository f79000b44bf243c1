package tui

import (
	"context"
	"os"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	orchestrator "github.com/guilhermegouw/agrochat/internal/chat"
	"github.com/guilhermegouw/agrochat/internal/config"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/session"
	"github.com/guilhermegouw/agrochat/internal/tui/components/sessions"
)

type stubGateway struct {
	convs []gateway.Conversation
}

func (s *stubGateway) CreateConversation(context.Context, string) (string, error) {
	return "conv-new", nil
}

func (s *stubGateway) ListConversations(context.Context, string, int) ([]gateway.Conversation, error) {
	return s.convs, nil
}

func (s *stubGateway) History(context.Context, string) (*gateway.History, error) {
	return &gateway.History{Messages: []gateway.BackendMessage{
		{ID: "m1", Role: gateway.RoleUser, Content: "Rust on wheat leaves"},
		{ID: "m2", Role: gateway.RoleAI, Content: "Likely leaf rust. Scout and consider a triazole."},
	}}, nil
}

func (s *stubGateway) Ask(context.Context, gateway.AskRequest) (*gateway.Answer, error) {
	return &gateway.Answer{Text: "ok"}, nil
}

func (s *stubGateway) FollowUp(context.Context, string, gateway.AskRequest) (*gateway.Answer, error) {
	return &gateway.Answer{Text: "ok"}, nil
}

func (s *stubGateway) ClearMessages(context.Context, string) (bool, error) {
	return true, nil
}

func (s *stubGateway) DeleteConversation(context.Context, string) (bool, error) {
	return true, nil
}

func newModel(t *testing.T, gw *stubGateway) (*Model, *session.Manager) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Options.DataDir = t.TempDir()

	mgr := session.NewManager(session.NewStore(nil))
	m := New(context.Background(), cfg, orchestrator.New(gw, mgr))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, mgr
}

// drain runs cmd, one batch level deep, and feeds the results back into the
// model.
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg != nil {
			m.Update(msg)
		}
		return
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res := c(); res != nil {
			m.Update(res)
		}
	}
}

func TestNewChatFromSidebar(t *testing.T) {
	m, mgr := newModel(t, &stubGateway{})

	_, cmd := m.Update(sessions.NewSessionMsg{})
	drain(m, cmd)

	cur, ok := mgr.Store().Current()
	if !ok || cur.ConversationID != "conv-new" {
		t.Fatalf("expected a bound session, got %+v", cur)
	}
	if m.focus != focusChat {
		t.Error("a new chat should focus the composer")
	}
}

func TestSelectAndRename(t *testing.T) {
	m, mgr := newModel(t, &stubGateway{})
	first := mgr.CreateSession("")
	mgr.CreateSession("")

	m.Update(sessions.SessionSelectedMsg{SessionID: first})
	if mgr.Store().ActiveID() != first {
		t.Error("selecting should switch the active session")
	}

	m.Update(sessions.RenameConfirmedMsg{SessionID: first, Title: "Wheat rust"})
	got, _ := mgr.Store().Get(first)
	if got.Title != "Wheat rust" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestDeleteRunsThroughOrchestrator(t *testing.T) {
	m, mgr := newModel(t, &stubGateway{})
	id := mgr.CreateSession("conv-1")

	_, cmd := m.Update(sessions.DeleteConfirmedMsg{SessionID: id})
	done, ok := cmd().(opDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("got %#v", done)
	}
	if mgr.Store().Len() != 0 {
		t.Error("session should be deleted")
	}
}

func TestOpenBackendConversation(t *testing.T) {
	gw := &stubGateway{convs: []gateway.Conversation{{ID: "conv-7", Title: "Wheat rust"}}}
	m, mgr := newModel(t, gw)

	_, cmd := m.Update(sessions.OpenConversationsMsg{})
	if !m.picker.IsVisible() {
		t.Fatal("picker should open")
	}
	loaded, ok := cmd().(sessions.ConversationsLoadedMsg)
	if !ok || len(loaded.Conversations) != 1 {
		t.Fatalf("got %#v", loaded)
	}
	m.Update(loaded)
	if !strings.Contains(ansi.Strip(m.View().Content), "Wheat rust") {
		t.Error("picker should list the conversation")
	}

	_, cmd = m.Update(sessions.ConversationChosenMsg{Conversation: gw.convs[0]})
	drain(m, cmd)

	cur, ok := mgr.FindByConversation("conv-7")
	if !ok || len(cur.Messages) != 2 || cur.Title != "Wheat rust" {
		t.Fatalf("imported session = %+v", cur)
	}
}

func TestExportWritesFile(t *testing.T) {
	m, mgr := newModel(t, &stubGateway{})
	id := mgr.CreateSession("")

	_, cmd := m.Update(sessions.ExportSessionMsg{SessionID: id, Format: "md"})
	res, ok := cmd().(exportedMsg)
	if !ok || res.err != nil {
		t.Fatalf("got %#v", res)
	}
	if !strings.HasPrefix(res.path, exportDir(m.cfg)) {
		t.Errorf("export written outside the data dir: %s", res.path)
	}
	if _, err := os.Stat(res.path); err != nil {
		t.Error(err)
	}
}

func TestViewLayout(t *testing.T) {
	m, mgr := newModel(t, &stubGateway{})
	mgr.CreateSession("")
	m.refreshSessions()

	view := m.View()
	if !view.AltScreen {
		t.Error("TUI should use the alt screen")
	}
	content := ansi.Strip(view.Content)
	if !strings.Contains(content, "Chats (1)") {
		t.Error("sidebar should be shown at this width")
	}

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	if strings.Contains(ansi.Strip(m.View().Content), "Chats (1)") {
		t.Error("sidebar should be hidden on narrow terminals")
	}
}
