// Package logo renders the agrochat wordmark.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

const agroLogo = `
 █████╗  ██████╗ ██████╗  ██████╗
██╔══██╗██╔════╝ ██╔══██╗██╔═══██╗
███████║██║  ███╗██████╔╝██║   ██║
██╔══██║██║   ██║██╔══██╗██║   ██║
██║  ██║╚██████╔╝██║  ██║╚██████╔╝
╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝
`

// Used when the full logo does not fit.
const agroLogoSmall = `
╔═╗╔═╗╦═╗╔═╗
╠═╣║ ╦╠╦╝║ ║
╩ ╩╚═╝╩╚═╚═╝
`

// Tagline shown under the logo.
const Tagline = "Agronomic advice for the field"

// Render returns the logo with the current theme colors.
func Render() string {
	t := styles.CurrentTheme()
	return styles.ApplyForegroundGrad(strings.TrimPrefix(agroLogo, "\n"), t.Primary, t.Secondary)
}

// RenderSmall returns a smaller version of the logo.
func RenderSmall() string {
	t := styles.CurrentTheme()
	return styles.ApplyForegroundGrad(strings.TrimPrefix(agroLogoSmall, "\n"), t.Primary, t.Secondary)
}

// RenderFit returns the largest logo that fits in width, with the tagline.
func RenderFit(width int) string {
	t := styles.CurrentTheme()
	art := Render()
	if width < Width() {
		art = RenderSmall()
	}
	return lipgloss.JoinVertical(lipgloss.Center, art, "", t.S().Muted.Render(Tagline))
}

// Width returns the width of the full logo.
func Width() int {
	return lipgloss.Width(agroLogo)
}

// Height returns the height of the full logo.
func Height() int {
	return lipgloss.Height(strings.TrimPrefix(agroLogo, "\n"))
}
