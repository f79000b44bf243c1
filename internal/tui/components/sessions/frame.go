package sessions

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// Frame is a rounded box whose top edge carries a title on the left and an
// optional badge on the right.
type Frame struct {
	title   string
	badge   string
	content string
	width   int
	height  int
	focused bool
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{}
}

// SetTitle sets the title shown on the top edge.
func (f *Frame) SetTitle(title string) { f.title = title }

// SetBadge sets the right-hand label of the top edge. Empty hides it.
func (f *Frame) SetBadge(badge string) { f.badge = badge }

// SetContent sets the body.
func (f *Frame) SetContent(content string) { f.content = content }

// SetSize sets the outer dimensions, borders included.
func (f *Frame) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// SetFocused highlights the border.
func (f *Frame) SetFocused(focused bool) { f.focused = focused }

// View renders the frame.
func (f *Frame) View() string {
	t := styles.CurrentTheme()

	color := t.Border
	if f.focused {
		color = t.BorderFocus
	}
	edge := lipgloss.NewStyle().Foreground(color)

	inner := max(4, f.width-2)
	bodyWidth := inner - 2
	bodyHeight := max(1, f.height-2)

	src := strings.Split(f.content, "\n")
	lines := make([]string, bodyHeight)
	for i := range lines {
		var line string
		if i < len(src) {
			line = ansi.Truncate(src[i], bodyWidth, "…")
		}
		lines[i] = line + strings.Repeat(" ", max(0, bodyWidth-lipgloss.Width(line)))
	}

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(color).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, f.top(edge, inner), body)
}

// top draws "╭─ title ──── badge ─╮" in exactly inner+2 cells.
func (f *Frame) top(edge lipgloss.Style, inner int) string {
	t := styles.CurrentTheme()

	badge := ""
	if f.badge != "" {
		badge = t.S().Muted.Render(ansi.Truncate(" "+f.badge+" ", max(0, inner/2), "…"))
	}
	room := max(0, inner-1-lipgloss.Width(badge)-1)
	title := t.S().Primary.Bold(true).Render(ansi.Truncate(f.title, room, "…"))

	fill := max(0, inner-1-lipgloss.Width(title)-lipgloss.Width(badge)-1)
	return edge.Render("╭─") + title + edge.Render(strings.Repeat("─", fill)) + badge + edge.Render("─╮")
}
