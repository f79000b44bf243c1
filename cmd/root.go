// Package cmd provides the CLI commands for agrochat.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agrochat/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agrochat",
		Short: "Terminal client for the agronomic advisory assistant",
		Long: `agrochat is a chat client for an agronomic advisory backend.

Ask about crops, soil, pests or weather, attach field photos, and keep
several conversations side by side. Conversations are stored by the
backend; chats opened in the client live only while it runs.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	flags := cmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug logging to the data directory")
	flags.String("config", "", "Path to a config file (default: standard locations)")
	flags.String("base-url", "", "Backend base URL (overrides config)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	cmd.AddCommand(
		newAskCmd(),
		newConversationsCmd(),
		newHistoryCmd(),
		newMockServerCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Options.Debug {
		cmd.PrintErrf("Debug: %s\n", a.cfg.DebugLogPath())
	}

	return tui.Run(cmd.Context(), a.cfg, a.orch, a.hub)
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// ExecuteContext runs the root command with ctx, cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
