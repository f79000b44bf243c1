// Package chat provides the conversation page of the agrochat TUI: the
// thread of the active session, the question composer and the status bar.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/guilhermegouw/agrochat/internal/attachment"
	"github.com/guilhermegouw/agrochat/internal/bridge"
	orchestrator "github.com/guilhermegouw/agrochat/internal/chat"
	"github.com/guilhermegouw/agrochat/internal/debug"
	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
	"github.com/guilhermegouw/agrochat/internal/tui/util"
)

type (
	// AnswerMsg is sent when a question round trip finishes.
	AnswerMsg struct {
		SessionID string
		Question  string
		Uploads   []attachment.Upload
		Reply     message.Message
		Err       error
	}

	// AttachedMsg is sent when an image file has been read.
	AttachedMsg struct {
		Upload attachment.Upload
		Err    error
	}

	// CopiedMsg is sent after writing to the clipboard.
	CopiedMsg struct {
		Chars int
		Err   error
	}
)

// Model is the chat page model.
type Model struct {
	ctx       context.Context
	orch      *orchestrator.Orchestrator
	thread    *Thread
	input     *Input
	status    *StatusBar
	commands  *CommandRegistry
	asking    map[string]bool
	sessionID string
	focused   bool
	width     int
	height    int

	// copy writes to the system clipboard.
	copy func(string) error
}

// New creates a chat page for the orchestrator. ctx bounds every request
// the page starts.
func New(ctx context.Context, orch *orchestrator.Orchestrator) *Model {
	return &Model{
		ctx:      ctx,
		orch:     orch,
		thread:   NewThread(),
		input:    NewInput(),
		status:   NewStatusBar(),
		commands: NewCommandRegistry(),
		asking:   make(map[string]bool),
		focused:  true,
		copy:     clipboard.WriteAll,
	}
}

// Init initializes the chat page.
func (m *Model) Init() tea.Cmd {
	m.Refresh()
	return m.input.Init()
}

// SessionID returns the session shown on the page.
func (m *Model) SessionID() string {
	return m.sessionID
}

// Asking reports whether a question of the session is awaiting its answer.
func (m *Model) Asking(sessionID string) bool {
	return m.asking[sessionID]
}

// Refresh reloads the active session from the store.
func (m *Model) Refresh() {
	cur, ok := m.orch.Sessions().Store().Current()
	if !ok {
		m.sessionID = ""
		m.thread.SetMessages(nil)
		m.status.SetSession("", false)
		m.input.Enable()
		return
	}

	m.sessionID = cur.ID
	m.thread.SetMessages(cur.Messages)
	m.status.SetSession(cur.Title, cur.Bound())
	if m.asking[cur.ID] {
		m.input.Disable()
	} else {
		m.input.Enable()
	}
	if !m.focused {
		m.input.Blur()
	}
}

// SetFocused gives or takes keyboard focus.
func (m *Model) SetFocused(focused bool) tea.Cmd {
	m.focused = focused
	if !focused {
		m.input.Blur()
		return nil
	}
	if m.input.IsEnabled() {
		return m.input.Focus()
	}
	return nil
}

// Notify shows a notice raised by the page or its parent.
func (m *Model) Notify(level events.NoticeLevel, title, msg string) tea.Cmd {
	return m.status.SetNotice(events.NewNotice(level, title, msg))
}

// Update handles messages.
//
//nolint:gocyclo // One case per message type.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.thread, cmd = m.thread.Update(msg)
		return m, cmd

	case bridge.SessionEventMsg:
		m.Refresh()
		return m, nil

	case bridge.RequestEventMsg:
		ev := msg.Event.Payload
		debug.Event("chat", "request_"+string(ev.Phase), fmt.Sprintf("kind=%s session=%s", ev.Kind, ev.SessionID))
		return m, m.status.SetLoading(ev.Loading)

	case bridge.NoticeMsg:
		return m, m.status.SetNotice(msg.Event.Payload)

	case AnswerMsg:
		return m.handleAnswer(msg)

	case AttachMsg:
		return m, loadImage(msg.Path)

	case AttachedMsg:
		if msg.Err != nil {
			return m, m.Notify(events.NoticeError, "Attach failed", msg.Err.Error())
		}
		m.input.Attach(msg.Upload)
		return m, m.Notify(events.NoticeSuccess, "Image attached",
			fmt.Sprintf("%s will be sent with your next question.", filepath.Base(msg.Upload.Path)))

	case DetachMsg:
		n := m.input.Detach()
		return m, m.Notify(events.NoticeInfo, "Images removed", fmt.Sprintf("%d attachment(s) dropped.", n))

	case CopyAnswerMsg:
		return m, m.copyAnswer()

	case CopiedMsg:
		if msg.Err != nil {
			return m, m.Notify(events.NoticeError, "Copy failed", msg.Err.Error())
		}
		return m, m.Notify(events.NoticeSuccess, "Copied", fmt.Sprintf("%d characters copied to the clipboard.", msg.Chars))

	case ThemeMsg:
		if !styles.NewManager().SetTheme(msg.Name) {
			return m, m.Notify(events.NoticeWarning, "Unknown theme", msg.Name)
		}
		m.thread = NewThread()
		m.SetSize(m.width, m.height)
		m.Refresh()
		return m, nil

	case HelpMsg:
		return m, m.Notify(events.NoticeInfo, "Commands", m.commands.HelpText())

	case UsageMsg:
		return m, m.Notify(events.NoticeWarning, "Usage", msg.Usage)

	case UnknownCommandMsg:
		return m, m.Notify(events.NoticeWarning, "Unknown command", "/"+msg.Command+" (try /help)")

	case spinner.TickMsg, noticeExpiredMsg:
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()

	case "ctrl+y":
		return m, m.copyAnswer()

	case "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.thread, cmd = m.thread.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (util.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}

	if cmdMsg, ok := m.commands.Parse(m.sessionID, value); ok {
		m.input.Clear()
		return m, util.CmdHandler(cmdMsg)
	}

	if m.asking[m.sessionID] {
		return m, nil
	}
	if err := orchestrator.ValidateQuestion(value); err != nil {
		return m, m.Notify(events.NoticeWarning, "Invalid question", err.Error())
	}

	uploads := m.input.Take()
	m.input.Clear()
	if m.sessionID != "" {
		m.asking[m.sessionID] = true
		m.input.Disable()
	}

	debug.Event("chat", "ask", fmt.Sprintf("session=%s chars=%d images=%d", m.sessionID, len(value), len(uploads)))
	return m, m.ask(m.sessionID, value, uploads)
}

func (m *Model) ask(sessionID, question string, uploads []attachment.Upload) tea.Cmd {
	ctx, orch := m.ctx, m.orch
	return func() tea.Msg {
		reply, err := orch.SendMessage(ctx, question, uploads...)
		return AnswerMsg{
			SessionID: sessionID,
			Question:  question,
			Uploads:   uploads,
			Reply:     reply,
			Err:       err,
		}
	}
}

func (m *Model) handleAnswer(msg AnswerMsg) (util.Model, tea.Cmd) {
	delete(m.asking, msg.SessionID)
	m.Refresh()

	var cmds []tea.Cmd
	switch {
	case errors.Is(msg.Err, orchestrator.ErrSessionStarted):
		// The question was dropped; put it back so it can be resent.
		m.input.SetValue(msg.Question)
		for _, u := range msg.Uploads {
			m.input.Attach(u)
		}
		cmds = append(cmds, m.Notify(events.NoticeInfo, "New chat started", "Press enter to send your question."))
	case msg.Err != nil:
		debug.Error("chat", msg.Err, "send message")
		cmds = append(cmds, m.Notify(events.NoticeError, "Error", msg.Err.Error()))
	}

	if msg.SessionID == m.sessionID && m.focused {
		cmds = append(cmds, m.input.Focus())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) copyAnswer() tea.Cmd {
	cur, ok := m.orch.Sessions().Store().Current()
	if !ok {
		return nil
	}
	last, ok := cur.LastAIMessage()
	if !ok {
		return m.Notify(events.NoticeInfo, "Nothing to copy", "The advisor has not answered yet.")
	}
	write, text := m.copy, last.Content
	return func() tea.Msg {
		return CopiedMsg{Chars: len([]rune(text)), Err: write(text)}
	}
}

func loadImage(path string) tea.Cmd {
	return func() tea.Msg {
		u, err := attachment.Load(expandHome(path))
		return AttachedMsg{Upload: u, Err: err}
	}
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

// View renders the chat page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	m.input.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.thread.SetSize(m.width, m.threadHeight())

	separator := lipgloss.NewStyle().
		Width(m.width).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Render("")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.thread.View(),
		separator,
		m.input.View(),
		m.status.View(),
	)
}

// SetSize sets the chat page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.thread.SetSize(width, m.threadHeight())
}

func (m *Model) threadHeight() int {
	const statusHeight, separatorHeight = 1, 1
	return max(1, m.height-statusHeight-separatorHeight-m.input.Height())
}

// Cursor returns the cursor position relative to the page.
func (m *Model) Cursor() *tea.Cursor {
	if !m.focused || !m.input.IsEnabled() {
		return nil
	}
	c := m.input.Cursor()
	if c == nil {
		return nil
	}
	// The input sits below the thread, the separator and the chips row, inside a border.
	offset := m.threadHeight() + 1 + 1
	if len(m.input.Uploads()) > 0 {
		offset++
	}
	c.Y += offset
	c.X += 2
	return c
}
