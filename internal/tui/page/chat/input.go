package chat

import (
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agrochat/internal/attachment"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

const (
	placeholderIdle    = "Ask about your crops, soil or pests... (/help for commands)"
	placeholderWaiting = "Waiting for the advisor..."
)

// Input is the question composer. It holds the text being typed and the
// images attached to the next question.
type Input struct {
	textInput textinput.Model
	uploads   []attachment.Upload
	width     int
	enabled   bool
}

// NewInput creates a new input component.
func NewInput() *Input {
	ti := textinput.New()
	ti.Placeholder = placeholderIdle
	ti.CharLimit = 4096
	ti.Focus()

	return &Input{
		textInput: ti,
		enabled:   true,
	}
}

// Init initializes the input.
func (i *Input) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if !i.enabled {
		return i, nil
	}

	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

// View renders the attachment chips and the input box.
func (i *Input) View() string {
	t := styles.CurrentTheme()

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(i.width - 4)

	if !i.enabled {
		inputStyle = inputStyle.BorderForeground(t.Border)
	}

	box := inputStyle.Render(i.textInput.View())
	if len(i.uploads) == 0 {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left, i.chips(), box)
}

func (i *Input) chips() string {
	t := styles.CurrentTheme()
	names := make([]string, len(i.uploads))
	for n, u := range i.uploads {
		names[n] = "[img " + filepath.Base(u.Path) + "]"
	}
	return t.S().Accent.Render(" " + strings.Join(names, " "))
}

// Height returns the rendered height.
func (i *Input) Height() int {
	h := 3
	if len(i.uploads) > 0 {
		h++
	}
	return h
}

// SetWidth sets the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.SetWidth(width - 8) // border and padding
}

// Value returns the current input value.
func (i *Input) Value() string {
	return i.textInput.Value()
}

// SetValue sets the input value.
func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Clear clears the text. Attachments are kept.
func (i *Input) Clear() {
	i.textInput.SetValue("")
}

// Attach queues an image for the next question.
func (i *Input) Attach(u attachment.Upload) {
	i.uploads = append(i.uploads, u)
}

// Detach drops every queued image and returns how many there were.
func (i *Input) Detach() int {
	n := len(i.uploads)
	i.uploads = nil
	return n
}

// Uploads returns the queued images.
func (i *Input) Uploads() []attachment.Upload {
	return i.uploads
}

// Take returns the queued images and empties the queue.
func (i *Input) Take() []attachment.Upload {
	out := i.uploads
	i.uploads = nil
	return out
}

// Enable enables the input.
func (i *Input) Enable() {
	i.enabled = true
	i.textInput.Placeholder = placeholderIdle
	i.textInput.Focus()
}

// Disable disables the input.
func (i *Input) Disable() {
	i.enabled = false
	i.textInput.Placeholder = placeholderWaiting
	i.textInput.Blur()
}

// IsEnabled returns whether the input is enabled.
func (i *Input) IsEnabled() bool {
	return i.enabled
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur removes focus from the input.
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Cursor returns the cursor for the input.
func (i *Input) Cursor() *tea.Cursor {
	return i.textInput.Cursor()
}
