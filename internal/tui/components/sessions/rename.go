package sessions

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// RenameInput is a text input for renaming sessions.
type RenameInput struct {
	input    textinput.Model
	targetID string
}

// NewRenameInput creates a new rename input.
func NewRenameInput() *RenameInput {
	ti := textinput.New()
	ti.Placeholder = "Chat title..."
	ti.CharLimit = 100

	return &RenameInput{input: ti}
}

// Start begins renaming the given session.
func (r *RenameInput) Start(sessionID, current string) tea.Cmd {
	r.targetID = sessionID
	r.input.SetValue(current)
	r.input.CursorEnd()
	return r.input.Focus()
}

// SetWidth sets the input width.
func (r *RenameInput) SetWidth(width int) {
	r.input.SetWidth(max(4, width))
}

// Submit returns the rename request, or false when the title is blank.
func (r *RenameInput) Submit() (RenameConfirmedMsg, bool) {
	title := strings.TrimSpace(r.input.Value())
	if title == "" || r.targetID == "" {
		return RenameConfirmedMsg{}, false
	}
	return RenameConfirmedMsg{SessionID: r.targetID, Title: title}, true
}

// Reset clears the input.
func (r *RenameInput) Reset() {
	r.targetID = ""
	r.input.SetValue("")
	r.input.Blur()
}

// Update handles messages.
func (r *RenameInput) Update(msg tea.Msg) (*RenameInput, tea.Cmd) {
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

// View renders the input.
func (r *RenameInput) View() string {
	t := styles.CurrentTheme()
	return t.S().Text.Render("New name:") + "\n" + r.input.View()
}

// Cursor returns the cursor position.
func (r *RenameInput) Cursor() *tea.Cursor {
	return r.input.Cursor()
}
