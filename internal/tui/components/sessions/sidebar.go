package sessions

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/agrochat/internal/session"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
	"github.com/guilhermegouw/agrochat/internal/tui/util"
)

// Step is the current interaction of the sidebar.
type Step int

const (
	// StepList browses the session list.
	StepList Step = iota
	// StepRename edits the selected session's title.
	StepRename
	// StepConfirmDelete asks before deleting a session.
	StepConfirmDelete
	// StepConfirmClear asks before clearing a session's messages.
	StepConfirmClear
)

// Sidebar is the session list with its rename and confirmation flows.
type Sidebar struct {
	list   *SessionList
	rename *RenameInput
	hints  *HintBar
	frame  *Frame

	step        Step
	targetID    string
	targetTitle string
	exportFmt   string
	width       int
	height      int
}

// NewSidebar creates a sidebar. exportFormat is used by the export key.
func NewSidebar(exportFormat string) *Sidebar {
	if exportFormat == "" {
		exportFormat = "md"
	}
	return &Sidebar{
		list:      NewSessionList(),
		rename:    NewRenameInput(),
		hints:     NewHintBar(),
		frame:     NewFrame(),
		exportFmt: exportFormat,
	}
}

// SetSessions refreshes the list from a store snapshot.
func (s *Sidebar) SetSessions(sessions []session.Session, activeID string) {
	s.list.SetSessions(sessions, activeID)
	if s.step != StepList && s.targetID != "" && !contains(sessions, s.targetID) {
		s.back()
	}
}

func contains(sessions []session.Session, id string) bool {
	for i := range sessions {
		if sessions[i].ID == id {
			return true
		}
	}
	return false
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.frame.SetSize(width, height-1)
	s.list.SetSize(width-4, height-3)
	s.rename.SetWidth(width - 6)
	s.hints.SetWidth(width)
}

// SetFocused sets whether the sidebar has keyboard focus.
func (s *Sidebar) SetFocused(focused bool) {
	s.frame.SetFocused(focused)
}

// Step returns the current interaction.
func (s *Sidebar) Step() Step {
	return s.step
}

// Capturing reports whether every key should go to the sidebar.
func (s *Sidebar) Capturing() bool {
	return s.step != StepList
}

// Update handles messages.
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	switch s.step {
	case StepRename:
		if isKey {
			switch keyMsg.String() {
			case "esc":
				s.back()
				return s, nil
			case "enter":
				req, ok := s.rename.Submit()
				s.back()
				if !ok {
					return s, nil
				}
				return s, util.CmdHandler(req)
			}
		}
		var cmd tea.Cmd
		s.rename, cmd = s.rename.Update(msg)
		return s, cmd

	case StepConfirmDelete, StepConfirmClear:
		if !isKey {
			return s, nil
		}
		switch keyMsg.String() {
		case "y", "Y":
			id, step := s.targetID, s.step
			s.back()
			if step == StepConfirmDelete {
				return s, util.CmdHandler(DeleteConfirmedMsg{SessionID: id})
			}
			return s, util.CmdHandler(ClearConfirmedMsg{SessionID: id})
		case "n", "N", "esc":
			s.back()
		}
		return s, nil
	}

	if !isKey {
		return s, nil
	}

	selected, hasSelection := s.list.Selected()
	switch keyMsg.String() {
	case "n":
		return s, util.CmdHandler(NewSessionMsg{})
	case "o":
		return s, util.CmdHandler(OpenConversationsMsg{})
	case "r":
		if hasSelection {
			s.enter(StepRename, selected)
			s.hints.SetMode(HintModeRename)
			return s, s.rename.Start(selected.ID, selected.Title)
		}
	case "d":
		if hasSelection {
			s.enter(StepConfirmDelete, selected)
		}
	case "c":
		if hasSelection {
			s.enter(StepConfirmClear, selected)
		}
	case "e":
		if hasSelection {
			return s, util.CmdHandler(ExportSessionMsg{SessionID: selected.ID, Format: s.exportFmt})
		}
	default:
		var cmd tea.Cmd
		s.list, cmd = s.list.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Sidebar) enter(step Step, target session.Session) {
	s.step = step
	s.targetID = target.ID
	s.targetTitle = target.Title
	s.hints.SetMode(HintModeConfirm)
}

func (s *Sidebar) back() {
	s.step = StepList
	s.targetID = ""
	s.targetTitle = ""
	s.rename.Reset()
	s.hints.SetMode(HintModeNormal)
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	t := styles.CurrentTheme()

	s.frame.SetTitle(fmt.Sprintf(" Chats (%d) ", s.list.Len()))
	badge := ""
	if n := s.list.Local(); n > 0 {
		badge = fmt.Sprintf("%d local", n)
	}
	s.frame.SetBadge(badge)

	var content string
	switch s.step {
	case StepRename:
		content = s.rename.View()
	case StepConfirmDelete:
		content = s.confirm(t, "Delete")
	case StepConfirmClear:
		content = s.confirm(t, "Clear all messages in")
	default:
		content = s.list.View()
	}
	s.frame.SetContent(content)

	hints := t.S().Muted.Render(ansi.Truncate(s.hints.Text(), s.width, "…"))
	return lipgloss.JoinVertical(lipgloss.Left, s.frame.View(), hints)
}

func (s *Sidebar) confirm(t *styles.Theme, verb string) string {
	title := ansi.Truncate(s.targetTitle, max(4, s.width-8), "…")
	return t.S().Warning.Render(verb+" chat?") + "\n\n" +
		t.S().Text.Render(title) + "\n\n" +
		t.S().Muted.Render("[y] yes  [n] no")
}
