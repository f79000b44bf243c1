package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guilhermegouw/agrochat/internal/advisor"
	"github.com/guilhermegouw/agrochat/internal/debug"
)

func newMockServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local advisory backend with canned answers",
		Long: `Serve the conversation API from memory so the client can be tried
without the real backend. Answers are picked by keyword from the question.`,
		Example: `  agrochat mock-server --addr :8000 --latency 800ms
  agrochat --base-url http://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: runMockServer,
	}
	cmd.Flags().String("addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().Duration("latency", 0, "Delay added to every answer")
	return cmd
}

func runMockServer(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	latency, _ := cmd.Flags().GetDuration("latency")

	logger, err := newConsoleLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv := &http.Server{
		Addr:              addr,
		Handler:           advisor.NewServer(advisor.WithLogger(logger), advisor.WithLatency(latency)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx := cmd.Context()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("mock advisor listening", zap.String("addr", addr), zap.Duration("latency", latency))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newConsoleLogger logs to stderr for commands that run in the foreground.
func newConsoleLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level := "info"
	if on, _ := cmd.Flags().GetBool("debug"); on {
		level = "debug"
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(debug.ParseLevel(level))
	zc.DisableStacktrace = true
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("advisor"), nil
}
