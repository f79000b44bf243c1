package sessions

import (
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// HintMode represents the current mode for hint display.
type HintMode int

const (
	// HintModeNormal shows hints for normal browsing mode.
	HintModeNormal HintMode = iota
	// HintModeRename shows hints for rename mode.
	HintModeRename
	// HintModeConfirm shows hints for delete and clear confirmation.
	HintModeConfirm
	// HintModePicker shows hints for the backend conversation picker.
	HintModePicker
)

// HintBar displays context-sensitive keyboard hints.
type HintBar struct {
	mode  HintMode
	width int
}

// NewHintBar creates a new hint bar.
func NewHintBar() *HintBar {
	return &HintBar{
		mode: HintModeNormal,
	}
}

// SetMode sets the current hint mode.
func (h *HintBar) SetMode(mode HintMode) {
	h.mode = mode
}

// SetWidth sets the hint bar width.
func (h *HintBar) SetWidth(width int) {
	h.width = width
}

// Text returns the hint line for the current mode.
func (h *HintBar) Text() string {
	switch h.mode {
	case HintModeRename:
		return "[enter] save  [esc] cancel"
	case HintModeConfirm:
		return "[y] yes  [n] no"
	case HintModePicker:
		return "[enter] open  [c] clear  [r] reload  [esc] close"
	default:
		return "[n] new  [r] rename  [d] delete  [c] clear  [e] export  [o] open"
	}
}

// View renders the hint bar.
func (h *HintBar) View() string {
	t := styles.CurrentTheme()

	return t.S().Muted.
		Width(h.width).
		Align(lipgloss.Center).
		Render(h.Text())
}
