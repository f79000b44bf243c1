package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/guilhermegouw/agrochat/internal/attachment"
	"github.com/guilhermegouw/agrochat/internal/chat"
	"github.com/guilhermegouw/agrochat/internal/export"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/message"
)

// errAskFailed is returned when the backend could not answer.
var errAskFailed = errors.New("the advisor could not answer")

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Long: `Ask the advisor one question without opening the chat UI.

A new backend conversation is created unless --conversation is given, in
which case the question is a follow-up in that conversation. Images given
with --image are sent along with the question.`,
		Example: `  agrochat ask "When should I plant soybeans in Parana?"
  agrochat ask --image leaf.jpg "What is wrong with this leaf?"
  agrochat ask --conversation 6f1c... "And for maize?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
	cmd.Flags().StringP("conversation", "c", "", "Continue an existing backend conversation")
	cmd.Flags().StringSliceP("image", "i", nil, "Attach an image (repeatable)")
	cmd.Flags().Bool("plain", false, "Print the answer without markdown rendering")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if err := chat.ValidateQuestion(question); err != nil {
		return err
	}

	paths, _ := cmd.Flags().GetStringSlice("image")
	uploads, err := attachment.LoadAll(paths)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if convID, _ := cmd.Flags().GetString("conversation"); convID != "" {
		if _, err := a.orch.SelectBackendConversation(ctx, gateway.Conversation{ID: convID}); err != nil {
			return err
		}
	} else {
		a.orch.NewChat(ctx)
	}

	reply, err := a.orch.SendMessage(ctx, question, uploads...)
	if err != nil {
		return err
	}
	if reply.Content == message.ErrorReply {
		return errAskFailed
	}

	plain, _ := cmd.Flags().GetBool("plain")
	if err := printReply(cmd.OutOrStdout(), reply, plain); err != nil {
		return err
	}

	if s, ok := a.orch.Sessions().Store().Current(); ok && s.ConversationID != "" {
		cmd.PrintErrf("conversation: %s\n", s.ConversationID)
	}
	return nil
}

// printReply writes the answer and its table. Markdown is rendered only when
// stdout is a terminal.
func printReply(w io.Writer, reply message.Message, plain bool) error {
	body := reply.Content
	if data, ok := reply.Table(); ok {
		body += "\n\n" + export.MarkdownTable(data)
	}
	if level, ok := reply.AlertLevel(); ok {
		body = fmt.Sprintf("**[%s]** %s", strings.ToUpper(string(level)), body)
	}

	if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
		if out, err := glamour.Render(body, "auto"); err == nil {
			body = out
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(body, "\n"))
	return err
}
