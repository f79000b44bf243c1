package chat

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// noticeTTL is how long a notice stays in the status bar.
const noticeTTL = 6 * time.Second

// noticeExpiredMsg clears the notice with the matching sequence number.
type noticeExpiredMsg struct {
	seq int
}

// StatusBar shows the loading indicator, the latest notice and the sync
// state of the active session.
type StatusBar struct {
	spinner   spinner.Model
	loading   bool
	notice    *events.Notice
	noticeSeq int
	title     string
	synced    bool
	width     int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	t := styles.CurrentTheme()
	return &StatusBar{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(t.S().Info),
		),
	}
}

// SetLoading updates the loading indicator. It returns the spinner tick when
// loading starts.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	started := loading && !s.loading
	s.loading = loading
	if started {
		return s.spinner.Tick
	}
	return nil
}

// Loading reports whether the loading indicator is on.
func (s *StatusBar) Loading() bool {
	return s.loading
}

// SetNotice shows a notice and schedules its removal.
func (s *StatusBar) SetNotice(n events.Notice) tea.Cmd {
	s.notice = &n
	s.noticeSeq++
	seq := s.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// Notice returns the notice on display, if any.
func (s *StatusBar) Notice() (events.Notice, bool) {
	if s.notice == nil {
		return events.Notice{}, false
	}
	return *s.notice, true
}

// SetSession sets the active session label.
func (s *StatusBar) SetSession(title string, synced bool) {
	s.title = title
	s.synced = synced
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// Update advances the spinner and expires notices.
func (s *StatusBar) Update(msg tea.Msg) (*StatusBar, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case noticeExpiredMsg:
		if msg.seq == s.noticeSeq {
			s.notice = nil
		}
	}
	return s, nil
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var left string
	switch {
	case s.notice != nil:
		text := s.notice.Message
		if s.notice.Title != "" {
			text = s.notice.Title + ": " + text
		}
		left = t.Level(string(s.notice.Level)).Render(text)
	case s.loading:
		left = s.spinner.View() + " " + t.S().Info.Render("Consulting the advisor...")
	default:
		left = t.S().Success.Render("Ready")
	}

	session := s.title
	if s.synced {
		session += " · synced"
	} else if session != "" {
		session += " · local"
	}
	right := t.S().Muted.Render(session + "  tab focus • ctrl+y copy • ctrl+c quit")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	content := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return lipgloss.NewStyle().
		Width(s.width).
		MaxHeight(1).
		Padding(0, 1).
		Background(t.BgSubtle).
		Render(content)
}
