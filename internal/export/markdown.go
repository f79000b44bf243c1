package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/guilhermegouw/agrochat/internal/message"
)

const timeLayout = "2006-01-02 15:04"

// MarkdownExporter exports documents in Markdown format.
type MarkdownExporter struct{}

// Export implements Exporter.
func (e *MarkdownExporter) Export(doc *Document, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.ConversationID != "" {
		fmt.Fprintf(&b, "**Conversation:** %s  \n", doc.ConversationID)
	}
	if !doc.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Started:** %s  \n", doc.CreatedAt.Format(timeLayout))
	}
	fmt.Fprintf(&b, "**Messages:** %d\n\n", len(doc.Messages))
	b.WriteString("---\n\n")

	for i, m := range doc.Messages {
		stamp := ""
		if !m.Timestamp.IsZero() {
			stamp = fmt.Sprintf(" (%s)", m.Timestamp.Format(timeLayout))
		}
		fmt.Fprintf(&b, "**%s:**%s\n\n%s\n\n", speaker(m.Sender), stamp, m.Content)

		if md := m.Metadata; md != nil {
			writeMetadata(&b, md)
		}
		if i < len(doc.Messages)-1 {
			b.WriteString("---\n\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}

func speaker(s message.Sender) string {
	if s == message.SenderUser {
		return "You"
	}
	return "Advisor"
}

func writeMetadata(b *strings.Builder, md *message.Metadata) {
	if md.ImageURL != "" {
		if strings.HasPrefix(md.ImageURL, "data:") {
			b.WriteString("_[image attached]_\n\n")
		} else {
			fmt.Fprintf(b, "![image](%s)\n\n", md.ImageURL)
		}
	}
	if md.TableData != nil {
		b.WriteString(MarkdownTable(*md.TableData))
		b.WriteString("\n")
	}
	if md.AlertLevel != "" {
		fmt.Fprintf(b, "> **%s**\n\n", strings.ToUpper(string(md.AlertLevel)))
	}
}

// MarkdownTable renders a table attachment as a GitHub-style pipe table.
func MarkdownTable(t message.TableData) string {
	var b strings.Builder
	if t.Caption != "" {
		fmt.Fprintf(&b, "_%s_\n\n", t.Caption)
	}
	b.WriteString(row(t.Headers))
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString(row(sep))
	for _, r := range t.Rows {
		b.WriteString(row(r))
	}
	return b.String()
}

func row(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", "\\|")
	}
	return "| " + strings.Join(escaped, " | ") + " |\n"
}
