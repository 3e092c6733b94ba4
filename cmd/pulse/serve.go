package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/helixml/pulse/infrastructure/api"
	"github.com/helixml/pulse/internal/config"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and the periodic sync",
		Long: `Start the HTTP API server and the periodic sync.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)

  PERIODIC_SYNC_ENABLED              Enable periodic sync (default: true)
  PERIODIC_SYNC_INTERVAL_SECONDS     Sync interval (default: 86400)
  PERIODIC_SYNC_RETRY_ATTEMPTS       Retries after a failed run (default: 3)
  PERIODIC_SYNC_RETRY_DELAY_SECONDS  First retry delay, doubled per attempt (default: 60)

See "pulse sync --help" for storage, source and sentiment settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cmd, applyServeOverrides(cfg, host, port))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg config.AppConfig) error {
	client, cleanup, err := newClient(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	logger := client.Logger()
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pulse",
		append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)...)

	if err := client.StartScheduler(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	apiServer := api.NewAPIServer(client)
	router := apiServer.Router()
	apiServer.MountRoutes()

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"pulse","version":"%s"}`, version)
	})

	server := api.NewServer(cfg.Addr(), logger)
	server.Router().Mount("/", router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
