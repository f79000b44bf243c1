package chat

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/guilhermegouw/agrochat/internal/tui/styles"
)

// MarkdownRenderer renders advisor replies, caching the glamour renderer per
// width and theme.
type MarkdownRenderer struct {
	renderer    *glamour.TermRenderer
	cachedWidth int
	cachedTheme string
	mu          sync.RWMutex
}

// NewMarkdownRenderer creates a new markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render renders markdown content to styled terminal output. On failure the
// raw content is returned along with the error.
func (m *MarkdownRenderer) Render(content string, width int) (string, error) {
	if content == "" {
		return "", nil
	}

	renderer, err := m.getRenderer(width)
	if err != nil {
		return content, err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}

func (m *MarkdownRenderer) getRenderer(width int) (*glamour.TermRenderer, error) {
	theme := styles.CurrentTheme()

	m.mu.RLock()
	if m.renderer != nil && m.cachedWidth == width && m.cachedTheme == theme.Name {
		defer m.mu.RUnlock()
		return m.renderer, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renderer != nil && m.cachedWidth == width && m.cachedTheme == theme.Name {
		return m.renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyle(theme)),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
		glamour.WithColorProfile(termenv.TrueColor),
	)
	if err != nil {
		return nil, err
	}

	m.renderer = renderer
	m.cachedWidth = width
	m.cachedTheme = theme.Name
	return renderer, nil
}

// buildStyle derives a glamour style from the app theme.
func buildStyle(t *styles.Theme) ansi.StyleConfig {
	style := glamourstyles.DarkStyleConfig
	if !t.IsDark {
		style = glamourstyles.LightStyleConfig
	}

	primary := styles.Hex(t.Primary)
	secondary := styles.Hex(t.Secondary)
	accent := styles.Hex(t.Accent)
	muted := styles.Hex(t.FgMuted)
	subtle := styles.Hex(t.FgSubtle)
	base := styles.Hex(t.FgBase)

	// Advisor replies use headings as section labels, so drop the # prefixes.
	style.H1.Color = stringPtr(accent)
	style.H1.Bold = boolPtr(true)
	style.H1.Prefix = ""
	style.H1.Suffix = ""
	style.H2.Color = stringPtr(primary)
	style.H2.Bold = boolPtr(true)
	style.H2.Prefix = ""
	style.H3.Color = stringPtr(secondary)
	style.H3.Bold = boolPtr(true)
	style.H3.Prefix = ""
	style.H4.Color = stringPtr(secondary)
	style.H4.Prefix = ""
	style.H5.Color = stringPtr(muted)
	style.H5.Prefix = ""
	style.H6.Color = stringPtr(muted)
	style.H6.Prefix = ""

	style.Code.Color = stringPtr(secondary)
	style.CodeBlock.Chroma.Text.Color = stringPtr(base)
	style.CodeBlock.Chroma.Comment.Color = stringPtr(muted)

	style.Link.Color = stringPtr(primary)
	style.Link.Underline = boolPtr(true)
	style.LinkText.Color = stringPtr(primary)

	style.Item.BlockPrefix = "  "
	style.Enumeration.BlockPrefix = "  "

	style.BlockQuote.Color = stringPtr(muted)
	style.BlockQuote.Italic = boolPtr(true)

	style.Emph.Italic = boolPtr(true)
	style.Strong.Bold = boolPtr(true)
	style.HorizontalRule.Color = stringPtr(subtle)
	style.Table.Color = stringPtr(base)

	return style
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
