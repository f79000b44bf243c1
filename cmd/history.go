package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agrochat/internal/export"
	"github.com/guilhermegouw/agrochat/internal/gateway"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Print or export the history of a backend conversation",
		Long: `Fetch a conversation's history from the backend and write it to stdout.

With --limit the history is fetched one page at a time starting at --offset.
With --stats only the conversation summary is printed.`,
		Example: `  agrochat history 6f1c... --format md > field-notes.md
  agrochat history 6f1c... --limit 10 --offset 20
  agrochat history 6f1c... --stats`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}
	cmd.Flags().StringP("format", "f", "md", "Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().Int("limit", 0, "Page size; 0 fetches the whole history")
	cmd.Flags().Int("offset", 0, "Number of messages to skip when paging")
	cmd.Flags().Bool("stats", false, "Print message count and dates only")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	exp, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	convID := args[0]

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		st, err := a.client.ConversationStats(ctx, convID)
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		printStats(cmd, st)
		return nil
	}

	var hist gateway.History
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 {
		offset, _ := cmd.Flags().GetInt("offset")
		page, err := a.client.HistoryPage(ctx, convID, limit, offset)
		if err != nil {
			return fmt.Errorf("fetching history page: %w", err)
		}
		hist = gateway.History{ConversationID: convID, Messages: page.Messages}
		if page.HasMore {
			cmd.PrintErrf("showing %d of %d messages; next page: --offset %d\n",
				len(page.Messages), page.Total, offset+len(page.Messages))
		}
	} else {
		h, err := a.client.History(ctx, convID)
		if err != nil {
			return fmt.Errorf("fetching history: %w", err)
		}
		hist = *h
	}

	return exp.Export(export.FromHistory(convID, hist), cmd.OutOrStdout())
}

func printStats(cmd *cobra.Command, st *gateway.Stats) {
	fmt.Fprintf(cmd.OutOrStdout(), "Conversation: %s\n", st.ConversationID)
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("─", 40))
	fmt.Fprintf(cmd.OutOrStdout(), "Messages:      %d\n", st.MessageCount)
	if !st.FirstMessageDate.IsZero() {
		fmt.Fprintf(cmd.OutOrStdout(), "First message: %s\n", st.FirstMessageDate.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(cmd.OutOrStdout(), "Last message:  %s\n", st.LastMessageDate.Local().Format("2006-01-02 15:04"))
	}
}
