// Package welcome renders the splash shown in an empty chat.
package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agrochat/internal/tui/components/logo"
	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// Examples is the list of starter questions shown on the splash.
var Examples = []string{
	"My maize leaves are turning yellow from the tips. What is wrong?",
	"Soil pH is 5.2. How much lime should I apply per hectare?",
	"When should I plant soybeans after a wheat harvest?",
}

// Welcome displays the empty-chat splash.
type Welcome struct {
	width  int
	height int
}

// New creates a new welcome splash.
func New() *Welcome {
	return &Welcome{}
}

// SetSize sets the area the splash is centered in.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the splash.
func (w *Welcome) View() string {
	t := styles.CurrentTheme()

	lines := []string{
		logo.RenderFit(w.width),
		"",
		t.S().Subtitle.Render("Ask about crops, soil, pests or weather."),
		"",
	}
	for _, ex := range Examples {
		lines = append(lines, t.S().Muted.Render("• "+ex))
	}
	lines = append(lines, "",
		t.S().Subtle.Render("/attach <image> adds a photo • /help lists commands"))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if lipgloss.Height(content) > w.height {
		content = lipgloss.JoinVertical(lipgloss.Center,
			logo.RenderSmall(), "", t.S().Subtitle.Render("Ask about crops, soil, pests or weather."))
	}

	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, content)
}
