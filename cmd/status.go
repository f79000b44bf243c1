package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and backend reachability",
		Long: `Display the current agrochat status including:
  - Backend URL and whether it answers
  - User and request settings
  - Config and data locations`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "agrochat Status")
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("─", 40))
	fmt.Fprintln(cmd.OutOrStdout())

	fmt.Fprintf(cmd.OutOrStdout(), "Backend:  %s\n", a.client.BaseURL())
	fmt.Fprintf(cmd.OutOrStdout(), "          %s\n", reachability(cmd, a))
	fmt.Fprintln(cmd.OutOrStdout())

	user := a.cfg.UserID
	if user == "" {
		user = "(anonymous)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Settings:")
	fmt.Fprintf(cmd.OutOrStdout(), "  User:               %s\n", user)
	fmt.Fprintf(cmd.OutOrStdout(), "  Request timeout:    %s\n", a.cfg.RequestTimeout.Std())
	fmt.Fprintf(cmd.OutOrStdout(), "  Conversation limit: %d\n", a.cfg.ConversationLimit)
	if a.cfg.Options.MetricsAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Metrics:            %s/metrics\n", a.cfg.Options.MetricsAddr)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	if a.cfg.Options.Debug {
		fmt.Fprintln(cmd.OutOrStdout(), "Event brokers:")
		fmt.Fprintln(cmd.OutOrStdout(), a.hub.DebugString())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config File: %s\n", a.configPath(cmd))
	fmt.Fprintf(cmd.OutOrStdout(), "Data Dir:    %s\n", a.cfg.DataDir())
	return nil
}

// reachability lists one conversation to tell whether the backend answers.
func reachability(cmd *cobra.Command, a *app) string {
	convs, err := a.client.ListConversations(cmd.Context(), a.cfg.UserID, 1)
	if err != nil {
		return fmt.Sprintf("unreachable (%v)", err)
	}
	if len(convs) == 0 {
		return "reachable, no conversations"
	}
	return "reachable"
}
