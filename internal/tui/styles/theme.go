// Package styles holds the color theme and shared lipgloss styles of the TUI.
package styles

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Theme is a named palette.
//
//nolint:govet // Field order groups colors by role.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	once   sync.Once
	styles *Styles
}

// Styles are the text styles derived from a theme.
type Styles struct {
	Base     lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Primary  lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
}

// S returns the theme's styles, built on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		base := lipgloss.NewStyle().Foreground(t.FgBase)
		t.styles = &Styles{
			Base:     base,
			Text:     base,
			Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
			Title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Subtitle: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
			Primary:  lipgloss.NewStyle().Foreground(t.Primary),
			Accent:   lipgloss.NewStyle().Foreground(t.Accent),
			Success:  lipgloss.NewStyle().Foreground(t.Success),
			Error:    lipgloss.NewStyle().Foreground(t.Error),
			Warning:  lipgloss.NewStyle().Foreground(t.Warning),
			Info:     lipgloss.NewStyle().Foreground(t.Info),
		}
	})
	return t.styles
}

// Level returns the style for an alert or notice level name.
func (t *Theme) Level(level string) lipgloss.Style {
	s := t.S()
	switch level {
	case "success":
		return s.Success
	case "warning":
		return s.Warning
	case "error":
		return s.Error
	default:
		return s.Info
	}
}

// ParseHex parses "#rrggbb". Invalid input yields magenta so it is easy to spot.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 1, G: 0, B: 1}
	}
	return c
}

// Hex formats c as "#rrggbb".
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// ApplyForegroundGrad colors s with a horizontal gradient from one color to
// another, blended in Lab space. Each line gets the same gradient.
func ApplyForegroundGrad(s string, from, to color.Color) string {
	a, _ := colorful.MakeColor(from)
	b, _ := colorful.MakeColor(to)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		var clusters []string
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			clusters = append(clusters, g.Str())
		}

		var out strings.Builder
		for j, cluster := range clusters {
			step := 0.0
			if len(clusters) > 1 {
				step = float64(j) / float64(len(clusters)-1)
			}
			c := a.BlendLab(b, step).Clamped()
			out.WriteString(lipgloss.NewStyle().Foreground(c).Render(cluster))
		}
		lines[i] = out.String()
	}
	return strings.Join(lines, "\n")
}
