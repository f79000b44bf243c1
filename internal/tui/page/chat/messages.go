package chat

import (
	"net/url"
	"path"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/tui/components/welcome"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// Thread displays the messages of the active session in a scrollable
// viewport. An empty thread shows the welcome splash.
type Thread struct {
	viewport viewport.Model
	markdown *MarkdownRenderer
	welcome  *welcome.Welcome
	messages []message.Message
	cache    map[string]string
	width    int
	height   int
}

// NewThread creates an empty thread.
func NewThread() *Thread {
	return &Thread{
		viewport: viewport.New(),
		markdown: NewMarkdownRenderer(),
		welcome:  welcome.New(),
		cache:    make(map[string]string),
	}
}

// SetMessages replaces the displayed messages. The view follows the newest
// message unless the user has scrolled up.
func (th *Thread) SetMessages(msgs []message.Message) {
	follow := th.viewport.AtBottom() || len(msgs) != len(th.messages)
	th.messages = msgs
	th.refresh()
	if follow {
		th.viewport.GotoBottom()
	}
}

// Messages returns the displayed messages.
func (th *Thread) Messages() []message.Message {
	return th.messages
}

// SetSize sets the component size.
func (th *Thread) SetSize(width, height int) {
	if width == th.width && height == th.height {
		return
	}
	if width != th.width {
		clear(th.cache)
	}
	th.width = width
	th.height = height
	th.viewport.SetWidth(width)
	th.viewport.SetHeight(height)
	th.welcome.SetSize(width, height)
	th.refresh()
}

// Update routes scroll keys and mouse wheel events to the viewport.
func (th *Thread) Update(msg tea.Msg) (*Thread, tea.Cmd) {
	var cmd tea.Cmd
	th.viewport, cmd = th.viewport.Update(msg)
	return th, cmd
}

// View renders the thread.
func (th *Thread) View() string {
	if len(th.messages) == 0 {
		return th.welcome.View()
	}
	return th.viewport.View()
}

func (th *Thread) refresh() {
	if th.width <= 0 {
		return
	}
	rendered := make([]string, 0, len(th.messages))
	for _, msg := range th.messages {
		rendered = append(rendered, th.render(msg))
	}
	th.viewport.SetContent(strings.Join(rendered, "\n\n"))
}

func (th *Thread) render(msg message.Message) string {
	if out, ok := th.cache[msg.ID]; ok && msg.ID != "" {
		return out
	}

	width := max(10, th.width-4)
	var out string
	if msg.IsUser() {
		out = th.renderUser(msg, width)
	} else {
		out = th.renderAI(msg, width)
	}
	out = lipgloss.NewStyle().Padding(0, 1).Render(out)

	if msg.ID != "" {
		th.cache[msg.ID] = out
	}
	return out
}

func (th *Thread) renderUser(msg message.Message, width int) string {
	t := styles.CurrentTheme()

	header := t.S().Text.Bold(true).Render("You") + " " + t.S().Subtle.Render(timestamp(msg))
	parts := []string{header, t.S().Text.Width(width).Render(msg.Content)}

	for _, a := range msg.Attachments {
		if img, ok := a.(message.Image); ok {
			parts = append(parts, t.S().Accent.Render("  [image] "+imageLabel(img.URL)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (th *Thread) renderAI(msg message.Message, width int) string {
	t := styles.CurrentTheme()

	header := t.S().Primary.Bold(true).Render("Advisor") + " " + t.S().Subtle.Render(timestamp(msg))
	level, hasAlert := msg.AlertLevel()
	if hasAlert {
		header += "  " + t.Level(string(level)).Bold(true).Render(strings.ToUpper(string(level)))
	}

	body, err := th.markdown.Render(msg.Content, width)
	if err != nil {
		body = t.S().Text.Width(width).Render(msg.Content)
	}
	parts := []string{header, strings.TrimRight(body, "\n")}

	if data, ok := msg.Table(); ok {
		parts = append(parts, renderTable(data, width))
	}

	out := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if hasAlert {
		out = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(t.Level(string(level)).GetForeground()).
			PaddingLeft(1).
			Render(out)
	}
	return out
}

// renderTable draws a table attachment with its caption underneath.
func renderTable(data message.TableData, width int) string {
	t := styles.CurrentTheme()

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Border)).
		Headers(data.Headers...).
		Rows(data.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.S().Primary.Bold(true).Padding(0, 1)
			}
			return t.S().Text.Padding(0, 1)
		})
	if lipgloss.Width(tbl.String()) > width {
		tbl = tbl.Width(width)
	}

	out := tbl.String()
	if data.Caption != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, t.S().Muted.Italic(true).Render(data.Caption))
	}
	return out
}

func timestamp(msg message.Message) string {
	if msg.Timestamp.IsZero() {
		return ""
	}
	return msg.Timestamp.Local().Format("15:04")
}

// imageLabel shortens an image URL for display. Data URLs carry no name.
func imageLabel(raw string) string {
	if strings.HasPrefix(raw, "data:") {
		return "uploaded image"
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return raw
}
