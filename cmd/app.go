package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guilhermegouw/agrochat/internal/chat"
	"github.com/guilhermegouw/agrochat/internal/config"
	"github.com/guilhermegouw/agrochat/internal/debug"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
	"github.com/guilhermegouw/agrochat/internal/session"
)

// app is the wired client: config, gateway, session store and orchestrator.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *gateway.Client
	hub     *pubsub.Hub
	orch    *chat.Orchestrator
	metrics *http.Server
}

// loadConfig reads the config named by --config, or the standard locations,
// and applies the --base-url override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Options.MetricsAddr = addr
	}
	if on, _ := cmd.Flags().GetBool("debug"); on {
		cfg.Options.Debug = true
	}
	return cfg, cfg.Validate()
}

// newApp wires the client from the command's flags.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Options.Debug {
		if err := debug.Enable(cfg.DebugLogPath(), cfg.Options.LogLevel); err != nil {
			cmd.PrintErrf("Warning: Failed to enable debug logging: %v\n", err)
		}
	}
	logger := debug.Logger()

	a := &app{cfg: cfg, logger: logger, hub: pubsub.NewHub()}

	opts := []gateway.Option{
		gateway.WithTimeout(cfg.RequestTimeout.Std()),
		gateway.WithLogger(logger.Named("gateway")),
	}
	if cfg.Options.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, gateway.WithMetrics(gateway.NewMetrics(reg)))
		a.metrics = serveMetrics(cfg.Options.MetricsAddr, reg, logger)
	}

	a.client, err = gateway.New(cfg.BaseURL, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	sessions := session.NewManager(session.NewStore(a.hub.Session))
	a.orch = chat.New(a.client, sessions,
		chat.WithLogger(logger.Named("chat")),
		chat.WithHub(a.hub),
		chat.WithUserID(cfg.UserID),
		chat.WithConversationLimit(cfg.ConversationLimit),
	)
	return a, nil
}

// serveMetrics exposes reg on addr until the returned server is shut down.
func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}

// Close stops the metrics server, the hub and debug logging.
func (a *app) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = a.metrics.Shutdown(ctx)
		cancel()
	}
	if a.hub != nil {
		a.hub.Shutdown()
	}
	debug.Disable()
}

// configPath is the file --config names, or the global config file.
func (a *app) configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.GlobalConfigPath()
}
