package sessions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
	"github.com/guilhermegouw/agrochat/internal/tui/util"
)

// Picker is the modal listing backend conversations.
type Picker struct {
	conversations []gateway.Conversation
	cursor        int
	loading       bool
	err           error
	visible       bool
	hints         *HintBar
	width         int
	height        int
}

// NewPicker creates a hidden picker.
func NewPicker() *Picker {
	h := NewHintBar()
	h.SetMode(HintModePicker)
	return &Picker{hints: h}
}

// Open shows the picker in its loading state.
func (p *Picker) Open() {
	p.visible = true
	p.loading = true
	p.err = nil
}

// Hide closes the picker.
func (p *Picker) Hide() {
	p.visible = false
	p.loading = false
}

// IsVisible returns whether the picker is shown.
func (p *Picker) IsVisible() bool {
	return p.visible
}

// SetConversations fills the picker with a list result.
func (p *Picker) SetConversations(msg ConversationsLoadedMsg) {
	p.loading = false
	p.err = msg.Err
	p.conversations = msg.Conversations
	if p.cursor >= len(p.conversations) {
		p.cursor = max(0, len(p.conversations)-1)
	}
}

// SetSize sets the screen size the picker is centered in.
func (p *Picker) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.hints.SetWidth(p.innerWidth())
}

func (p *Picker) innerWidth() int {
	return max(20, min(p.width-10, 72))
}

// Update handles keys while visible.
func (p *Picker) Update(msg tea.Msg) (*Picker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.visible {
		return p, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		p.Hide()
		return p, util.CmdHandler(ModalClosedMsg{})
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.conversations)-1 {
			p.cursor++
		}
	case "r":
		p.loading = true
		return p, util.CmdHandler(OpenConversationsMsg{})
	case "enter":
		if conv, ok := p.selected(); ok {
			p.Hide()
			return p, util.CmdHandler(ConversationChosenMsg{Conversation: conv})
		}
	case "c":
		if conv, ok := p.selected(); ok {
			return p, util.CmdHandler(ClearRemoteMsg{ConversationID: conv.ID})
		}
	}
	return p, nil
}

func (p *Picker) selected() (gateway.Conversation, bool) {
	if p.loading || p.cursor < 0 || p.cursor >= len(p.conversations) {
		return gateway.Conversation{}, false
	}
	return p.conversations[p.cursor], true
}

// View renders the picker box.
func (p *Picker) View() string {
	t := styles.CurrentTheme()
	width := p.innerWidth()

	var body []string
	switch {
	case p.loading:
		body = append(body, t.S().Muted.Render("Loading conversations..."))
	case p.err != nil:
		body = append(body, t.S().Error.Render("Failed to load conversations"), t.S().Muted.Render(p.err.Error()))
	case len(p.conversations) == 0:
		body = append(body, t.S().Muted.Render("No conversations on the server."))
	default:
		for i, conv := range p.conversations {
			title := conv.Title
			if title == "" {
				title = "Untitled"
			}
			line := fmt.Sprintf("%s  %s", ansi.Truncate(title, width-24, "…"),
				t.S().Muted.Render(fmt.Sprintf("%d msgs · %s", len(conv.Messages), formatRelativeTime(conv.UpdatedAt))))
			if i == p.cursor {
				line = t.S().Primary.Bold(true).Render("> ") + line
			} else {
				line = "  " + line
			}
			body = append(body, line)
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 2).
		Width(width + 6).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			t.S().Title.Render("Server conversations"),
			"",
			strings.Join(body, "\n"),
			"",
			p.hints.View(),
		))

	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, box)
}
