package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/helixml/pulse"
	"github.com/helixml/pulse/application/service"
	"github.com/helixml/pulse/internal/config"
	"github.com/helixml/pulse/internal/log"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var (
		localOnly bool
		cachePath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "sync [source]",
		Short: "Load a survey export and reconcile it with stored responses",
		Long: `Load a survey export and reconcile it with stored responses.

The source is a URL or a file path. Without one, SOURCE_URL is used, and
when the source cannot be read the local cache is used instead.

Environment variables:
  DATA_DIR                     Data directory (default: ~/.pulse)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/pulse.db)
  SOURCE_URL                   Default export URL
  SOURCE_CACHE_PATH            Export cache (default: {data_dir}/data.csv)
  SOURCE_TIMEOUT               Fetch timeout in seconds (default: 30)
  HEADER_MAP_FILE              YAML file of export header overrides
  SENTIMENT_PROVIDER           local or openai (default: local)
  SENTIMENT_MODEL_DIR          Local model directory (default: {data_dir}/models)
  SENTIMENT_ENDPOINT_*         OpenAI-compatible endpoint
    BASE_URL, MODEL, API_KEY, TIMEOUT, MAX_RETRIES`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := service.SyncParams{LocalOnly: localOnly, CachePath: cachePath}
			if len(args) == 1 {
				params.Source = args[0]
			}
			return runSync(cmd, params, asJSON)
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local-only", false, "Skip the fetch and read the local cache")
	cmd.Flags().StringVar(&cachePath, "cache", "", "Export cache path (default: SOURCE_CACHE_PATH)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")

	return cmd
}

func runSync(cmd *cobra.Command, params service.SyncParams, asJSON bool) error {
	ctx := cmd.Context()

	client, cleanup, err := openClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := client.Pipeline.Run(ctx, params)
	if err != nil {
		return err
	}

	return printStats(cmd.OutOrStdout(), stats, asJSON)
}

func printStats(w io.Writer, stats service.SyncStats, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value int
	}{
		{"created", stats.Created},
		{"updated", stats.Updated},
		{"skipped", stats.Skipped},
		{"errors", stats.Errors},
		{"ai_analyzed", stats.AIAnalyzed},
		{"processed", stats.Processed},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%d\n", r.name, r.value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// openClient loads configuration, sets up logging on stderr and creates a
// client without the periodic scheduler. cleanup closes the client.
func openClient(cmd *cobra.Command) (*pulse.Client, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return newClient(cfg, cmd.ErrOrStderr())
}

func newClient(cfg config.AppConfig, logOut io.Writer) (*pulse.Client, func(), error) {
	logger := log.NewLoggerWithWriter(logOut, cfg.LogFormat(), cfg.LogLevel())
	log.SetDefaultLogger(logger)
	slogger := logger.Slog()

	opts, err := clientOptions(cfg, slogger)
	if err != nil {
		return nil, nil, err
	}

	client, err := pulse.New(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create pulse client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close pulse client", slog.Any("error", err))
		}
	}
	return client, cleanup, nil
}
