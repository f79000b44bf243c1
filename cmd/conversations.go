package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"ls"},
		Short:   "List conversations stored by the backend",
		Args:    cobra.NoArgs,
		RunE:    runConversations,
	}
	cmd.Flags().Int("limit", 0, "Maximum number of conversations (default: conversation_limit)")
	return cmd
}

func runConversations(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = a.cfg.ConversationLimit
	}

	convs, err := a.client.ListConversations(cmd.Context(), a.cfg.UserID, limit)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}
	if len(convs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet.")
		return nil
	}

	rows := make([][]string, 0, len(convs))
	for _, c := range convs {
		rows = append(rows, []string{
			c.ID,
			c.Title,
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			c.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "CREATED", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return nil
}
