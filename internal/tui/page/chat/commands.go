package chat

import (
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/agrochat/internal/export"
	"github.com/guilhermegouw/agrochat/internal/tui/components/sessions"
)

// Command message types handled by the chat page itself. Session-level
// commands reuse the sessions component messages so the root model handles
// them the same way as sidebar actions.
type (
	// AttachMsg queues an image file for the next question.
	AttachMsg struct {
		Path string
	}

	// DetachMsg drops the queued images.
	DetachMsg struct{}

	// CopyAnswerMsg copies the latest advisor reply to the clipboard.
	CopyAnswerMsg struct{}

	// ThemeMsg switches the color theme.
	ThemeMsg struct {
		Name string
	}

	// HelpMsg lists the commands.
	HelpMsg struct{}

	// UsageMsg reports a command that was called with bad arguments.
	UsageMsg struct {
		Command string
		Usage   string
	}

	// UnknownCommandMsg indicates an unknown slash command was entered.
	UnknownCommandMsg struct {
		Command string
	}
)

// Command represents a slash command.
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     func(sessionID string, args []string) tea.Msg
}

// CommandRegistry holds registered slash commands.
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry with default commands.
func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{
		commands: make(map[string]Command),
	}

	r.Register(Command{
		Name:        "new",
		Description: "Start a new chat",
		Handler:     func(string, []string) tea.Msg { return sessions.NewSessionMsg{} },
	})
	r.Register(Command{
		Name:        "clear",
		Description: "Clear the messages of this chat",
		Handler: func(id string, _ []string) tea.Msg {
			return sessions.ClearConfirmedMsg{SessionID: id}
		},
	})
	r.Register(Command{
		Name:        "delete",
		Description: "Delete this chat",
		Handler: func(id string, _ []string) tea.Msg {
			return sessions.DeleteConfirmedMsg{SessionID: id}
		},
	})
	r.Register(Command{
		Name:        "rename",
		Usage:       "/rename <title>",
		Description: "Rename this chat",
		Handler: func(id string, args []string) tea.Msg {
			if len(args) == 0 {
				return UsageMsg{Command: "rename", Usage: "/rename <title>"}
			}
			return sessions.RenameConfirmedMsg{SessionID: id, Title: strings.Join(args, " ")}
		},
	})
	r.Register(Command{
		Name:        "attach",
		Usage:       "/attach <image path>",
		Description: "Attach a photo to the next question",
		Handler: func(_ string, args []string) tea.Msg {
			if len(args) == 0 {
				return UsageMsg{Command: "attach", Usage: "/attach <image path>"}
			}
			return AttachMsg{Path: strings.Join(args, " ")}
		},
	})
	r.Register(Command{
		Name:        "detach",
		Description: "Drop attached photos",
		Handler:     func(string, []string) tea.Msg { return DetachMsg{} },
	})
	r.Register(Command{
		Name:        "export",
		Usage:       "/export [json|yaml|md]",
		Description: "Save this chat to a file",
		Handler: func(id string, args []string) tea.Msg {
			format := "md"
			if len(args) > 0 {
				format = strings.ToLower(args[0])
			}
			if _, err := export.NewExporter(format); err != nil {
				return UsageMsg{Command: "export", Usage: "/export [json|yaml|md]"}
			}
			return sessions.ExportSessionMsg{SessionID: id, Format: format}
		},
	})
	r.Register(Command{
		Name:        "conversations",
		Description: "Browse conversations stored on the server",
		Handler:     func(string, []string) tea.Msg { return sessions.OpenConversationsMsg{} },
	})
	r.Register(Command{
		Name:        "copy",
		Description: "Copy the latest answer",
		Handler:     func(string, []string) tea.Msg { return CopyAnswerMsg{} },
	})
	r.Register(Command{
		Name:        "theme",
		Usage:       "/theme <default|light>",
		Description: "Switch the color theme",
		Handler: func(_ string, args []string) tea.Msg {
			if len(args) == 0 {
				return UsageMsg{Command: "theme", Usage: "/theme <default|light>"}
			}
			return ThemeMsg{Name: args[0]}
		},
	})
	r.Register(Command{
		Name:        "help",
		Description: "List commands",
		Handler:     func(string, []string) tea.Msg { return HelpMsg{} },
	})

	return r
}

// Register adds a command to the registry.
func (r *CommandRegistry) Register(cmd Command) {
	r.commands[cmd.Name] = cmd
}

// Parse attempts to parse input as a slash command for the given session.
// Returns the command message and true if it's a command, nil and false otherwise.
func (r *CommandRegistry) Parse(sessionID, input string) (tea.Msg, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil, false
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return nil, false
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := r.commands[cmdName]
	if !ok {
		return UnknownCommandMsg{Command: cmdName}, true
	}

	return cmd.Handler(sessionID, args), true
}

// GetCommands returns all registered commands sorted by name.
func (r *CommandRegistry) GetCommands() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// HelpText returns a one-line summary of the commands.
func (r *CommandRegistry) HelpText() string {
	names := make([]string, 0, len(r.commands))
	for _, cmd := range r.GetCommands() {
		names = append(names, "/"+cmd.Name)
	}
	return strings.Join(names, " ")
}
