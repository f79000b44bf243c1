// Package tui provides the terminal user interface of agrochat.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/guilhermegouw/agrochat/internal/bridge"
	orchestrator "github.com/guilhermegouw/agrochat/internal/chat"
	"github.com/guilhermegouw/agrochat/internal/config"
	"github.com/guilhermegouw/agrochat/internal/debug"
	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/export"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
	"github.com/guilhermegouw/agrochat/internal/tui/components/sessions"
	"github.com/guilhermegouw/agrochat/internal/tui/page/chat"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

const (
	sidebarWidth    = 32
	minWidthSidebar = 72
)

type focus int

const (
	focusChat focus = iota
	focusSidebar
)

type (
	// opDoneMsg reports a finished orchestrator operation.
	opDoneMsg struct {
		op  string
		err error
	}

	// chatCreatedMsg is sent once NewChat returns.
	chatCreatedMsg struct {
		sessionID string
	}

	// exportedMsg is sent once an export file is written.
	exportedMsg struct {
		path string
		err  error
	}
)

// Model is the main TUI model.
type Model struct {
	ctx         context.Context
	cfg         *config.Config
	orch        *orchestrator.Orchestrator
	chatPage    *chat.Model
	sidebar     *sessions.Sidebar
	picker      *sessions.Picker
	keyMap      KeyMap
	focus       focus
	showSidebar bool
	width       int
	height      int
	ready       bool
}

// New creates a new TUI model.
func New(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator) *Model {
	return &Model{
		ctx:         ctx,
		cfg:         cfg,
		orch:        orch,
		chatPage:    chat.New(ctx, orch),
		sidebar:     sessions.NewSidebar("md"),
		picker:      sessions.NewPicker(),
		keyMap:      DefaultKeyMap(),
		showSidebar: true,
	}
}

// Init initializes the TUI. A chat is started when there is none.
func (m *Model) Init() tea.Cmd {
	m.refreshSessions()
	cmds := []tea.Cmd{m.chatPage.Init()}
	if m.orch.Sessions().Store().Len() == 0 {
		cmds = append(cmds, m.newChat())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
//
//nolint:gocyclo // TUI update handler requires handling many message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateComponentSizes()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case bridge.SessionEventMsg:
		debug.Event("tui", "session_"+string(msg.Event.Payload.Type), msg.Event.Payload.SessionID)
		m.refreshSessions()
		_, cmd := m.chatPage.Update(msg)
		return m, cmd

	case sessions.SessionSelectedMsg:
		if err := m.orch.SelectSession(msg.SessionID); err != nil {
			return m, m.chatPage.Notify(events.NoticeError, "Error", err.Error())
		}
		return m, m.setFocus(focusChat)

	case sessions.NewSessionMsg:
		return m, m.newChat()

	case chatCreatedMsg:
		debug.Event("tui", "chat_created", msg.sessionID)
		return m, m.setFocus(focusChat)

	case sessions.RenameConfirmedMsg:
		if err := m.orch.RenameSession(msg.SessionID, msg.Title); err != nil {
			return m, m.chatPage.Notify(events.NoticeError, "Rename failed", err.Error())
		}
		return m, nil

	case sessions.DeleteConfirmedMsg:
		return m, m.run("delete", func(ctx context.Context) error {
			return m.orch.DeleteSession(ctx, msg.SessionID)
		})

	case sessions.ClearConfirmedMsg:
		return m, m.run("clear", func(ctx context.Context) error {
			return m.orch.ClearConversation(ctx, msg.SessionID)
		})

	case sessions.ExportSessionMsg:
		return m, m.exportSession(msg)

	case exportedMsg:
		if msg.err != nil {
			return m, m.chatPage.Notify(events.NoticeError, "Export failed", msg.err.Error())
		}
		return m, m.chatPage.Notify(events.NoticeSuccess, "Exported", msg.path)

	case sessions.OpenConversationsMsg:
		m.picker.Open()
		return m, m.listConversations()

	case sessions.ConversationsLoadedMsg:
		m.picker.SetConversations(msg)
		return m, nil

	case sessions.ConversationChosenMsg:
		conv := msg.Conversation
		return m, tea.Batch(m.setFocus(focusChat), m.run("open conversation", func(ctx context.Context) error {
			_, err := m.orch.SelectBackendConversation(ctx, conv)
			return err
		}))

	case sessions.ClearRemoteMsg:
		convID := msg.ConversationID
		return m, tea.Sequence(
			m.run("clear remote", func(ctx context.Context) error {
				return m.orch.ClearBackendConversation(ctx, convID)
			}),
			m.listConversations(),
		)

	case sessions.ModalClosedMsg:
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			// The orchestrator has already published a notice for backend failures.
			debug.Error("tui", msg.err, msg.op)
		}
		return m, nil
	}

	var cmds []tea.Cmd
	if m.sidebar.Step() == sessions.StepRename {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		cmds = append(cmds, cmd)
	}
	_, cmd := m.chatPage.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))

	if key.Matches(msg, m.keyMap.Quit) {
		return tea.Quit
	}

	if m.picker.IsVisible() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return cmd
	}

	if m.focus == focusSidebar && m.sidebar.Capturing() {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.SwitchFocus):
		if m.focus == focusChat && m.sidebarVisible() {
			return m.setFocus(focusSidebar)
		}
		return m.setFocus(focusChat)
	case key.Matches(msg, m.keyMap.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keyMap.Conversations):
		m.picker.Open()
		return m.listConversations()
	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.updateComponentSizes()
		if !m.sidebarVisible() {
			return m.setFocus(focusChat)
		}
		return nil
	}

	if m.focus == focusSidebar {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return cmd
	}
	_, cmd := m.chatPage.Update(msg)
	return cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.sidebar.SetFocused(f == focusSidebar)
	return m.chatPage.SetFocused(f == focusChat)
}

func (m *Model) refreshSessions() {
	store := m.orch.Sessions().Store()
	m.sidebar.SetSessions(store.Sessions(), store.ActiveID())
}

func (m *Model) newChat() tea.Cmd {
	ctx, orch := m.ctx, m.orch
	return func() tea.Msg {
		return chatCreatedMsg{sessionID: orch.NewChat(ctx)}
	}
}

// run executes an orchestrator operation off the update loop.
func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) listConversations() tea.Cmd {
	ctx, orch := m.ctx, m.orch
	return func() tea.Msg {
		convs, err := orch.ListBackendConversations(ctx)
		return sessions.ConversationsLoadedMsg{Conversations: convs, Err: err}
	}
}

func (m *Model) exportSession(msg sessions.ExportSessionMsg) tea.Cmd {
	sess, err := m.orch.Sessions().Store().Get(msg.SessionID)
	if err != nil {
		return m.chatPage.Notify(events.NoticeWarning, "Nothing to export", "Select a chat first.")
	}
	dir := exportDir(m.cfg)
	return func() tea.Msg {
		path, err := export.WriteFile(dir, msg.Format, export.FromSession(sess))
		return exportedMsg{path: path, err: err}
	}
}

func exportDir(cfg *config.Config) string {
	if cfg == nil {
		return "exports"
	}
	return filepath.Join(cfg.DataDir(), "exports")
}

func (m *Model) sidebarVisible() bool {
	return m.showSidebar && m.width >= minWidthSidebar
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	if m.picker.IsVisible() {
		view.Content = m.picker.View()
		return view
	}

	chatView := m.chatPage.View()
	if !m.sidebarVisible() {
		view.Content = chatView
		view.Cursor = m.chatPage.Cursor()
		return view
	}

	view.Content = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), chatView)
	if c := m.chatPage.Cursor(); c != nil {
		c.X += sidebarWidth
		view.Cursor = c
	}
	return view
}

func (m *Model) updateComponentSizes() {
	chatWidth := m.width
	if m.sidebarVisible() {
		chatWidth -= sidebarWidth
		m.sidebar.SetSize(sidebarWidth, m.height)
	}
	m.chatPage.SetSize(chatWidth, m.height)
	m.picker.SetSize(m.width, m.height)
}

// Run starts the TUI program.
func Run(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, hub *pubsub.Hub) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("agrochat requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	styles.NewManager()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(ctx, cfg, orch)
	// In Bubble Tea v2, AltScreen and MouseMode are set in View()
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if hub != nil {
		tuiBridge := bridge.NewTUIBridge(hub, p)
		tuiBridge.Start(ctx)
		defer tuiBridge.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
