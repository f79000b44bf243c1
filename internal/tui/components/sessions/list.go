package sessions

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/session"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
	"github.com/guilhermegouw/agrochat/internal/tui/util"
)

// SessionList displays the local sessions with navigation.
type SessionList struct {
	sessions []session.Session
	activeID string
	cursor   int
	width    int
	height   int
	offset   int // Scroll offset
}

// NewSessionList creates a new session list.
func NewSessionList() *SessionList {
	return &SessionList{}
}

// SetSessions replaces the list contents with a store snapshot. The cursor
// follows the active session when it changes.
func (l *SessionList) SetSessions(sessions []session.Session, activeID string) {
	activeChanged := activeID != l.activeID
	l.sessions = sessions
	l.activeID = activeID

	if activeChanged {
		for i := range sessions {
			if sessions[i].ID == activeID {
				l.cursor = i
			}
		}
	}
	if l.cursor >= len(l.sessions) {
		l.cursor = max(0, len(l.sessions)-1)
	}
	l.ensureVisible()
}

// Len returns the number of sessions shown.
func (l *SessionList) Len() int {
	return len(l.sessions)
}

// Local counts sessions not yet bound to a backend conversation.
func (l *SessionList) Local() int {
	n := 0
	for i := range l.sessions {
		if !l.sessions[i].Bound() {
			n++
		}
	}
	return n
}

// SetSize sets the list dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Selected returns the session under the cursor.
func (l *SessionList) Selected() (session.Session, bool) {
	if l.cursor >= 0 && l.cursor < len(l.sessions) {
		return l.sessions[l.cursor], true
	}
	return session.Session{}, false
}

// Update handles navigation keys. Action keys are handled by the Sidebar.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "down", "j":
		if l.cursor < len(l.sessions)-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "home", "g":
		l.cursor = 0
		l.offset = 0
	case "end", "G":
		l.cursor = max(0, len(l.sessions)-1)
		l.ensureVisible()
	case "enter":
		if selected, ok := l.Selected(); ok {
			return l, util.CmdHandler(SessionSelectedMsg{SessionID: selected.ID})
		}
	}
	return l, nil
}

func (l *SessionList) ensureVisible() {
	visibleRows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+visibleRows {
		l.offset = l.cursor - visibleRows + 1
	}
}

func (l *SessionList) visibleRows() int {
	// Each session takes 3 lines (title + preview + spacing)
	return max(1, (l.height-2)/3)
}

// View renders the session list.
func (l *SessionList) View() string {
	t := styles.CurrentTheme()

	if len(l.sessions) == 0 {
		return t.S().Muted.
			Width(l.width).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("No chats yet. Press [n] to start one.")
	}

	var rows []string
	visibleRows := l.visibleRows()
	endIdx := min(l.offset+visibleRows, len(l.sessions))

	for i := l.offset; i < endIdx; i++ {
		rows = append(rows, l.renderSession(l.sessions[i], i == l.cursor))
	}

	content := strings.Join(rows, "\n\n")
	if l.offset > 0 {
		content = t.S().Muted.Render(fmt.Sprintf("  ↑ %d more above", l.offset)) + "\n" + content
	}
	if remaining := len(l.sessions) - endIdx; remaining > 0 {
		content += "\n" + t.S().Muted.Render(fmt.Sprintf("  ↓ %d more below", remaining))
	}
	return content
}

func (l *SessionList) renderSession(sess session.Session, selected bool) string {
	t := styles.CurrentTheme()
	width := max(8, l.width-2)

	marker := "  "
	titleStyle := t.S().Text
	previewStyle := t.S().Muted
	if sess.ID == l.activeID {
		marker = "● "
		titleStyle = t.S().Primary
	}
	if selected {
		marker = "> "
		titleStyle = t.S().Primary.Bold(true)
		previewStyle = t.S().Text
	}

	title := ansi.Truncate(sess.Title, width-2, "…")

	meta := fmt.Sprintf("%d msgs · %s", len(sess.Messages), formatRelativeTime(sess.UpdatedAt))
	if sess.Bound() {
		meta += " · synced"
	}

	return titleStyle.Render(marker+title) + "\n" +
		previewStyle.Render("  "+ansi.Truncate(preview(sess), width-2, "…")) + "\n" +
		t.S().Subtle.Render("  "+ansi.Truncate(meta, width-2, "…"))
}

// preview is the first user question of a session, on one line.
func preview(sess session.Session) string {
	for _, m := range sess.Messages {
		if m.Sender == message.SenderUser && m.Content != "" {
			return strings.Join(strings.Fields(m.Content), " ")
		}
	}
	return "(no messages)"
}

// formatRelativeTime formats a time as a relative string.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
