// Package pulse reconciles employee survey exports into a relational store
// and enriches free-text answers with sentiment.
//
// Basic usage:
//
//	client, err := pulse.New(
//	    pulse.WithSQLite(".pulse/pulse.db"),
//	    pulse.WithSourceURL("https://example.com/export.csv"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	stats, err := client.Pipeline.Run(ctx, service.SyncParams{})
//	fmt.Println(stats.Created, stats.Updated, stats.Skipped)
//
//	// Re-run sentiment for one stored response
//	err = client.Enrichment.AnalyzeResponse(ctx, 42)
package pulse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/helixml/pulse/application/service"
	"github.com/helixml/pulse/domain/ingest"
	"github.com/helixml/pulse/domain/sentiment"
	"github.com/helixml/pulse/infrastructure/persistence"
	"github.com/helixml/pulse/infrastructure/provider"
	"github.com/helixml/pulse/infrastructure/source"
	"github.com/helixml/pulse/internal/config"
	"github.com/helixml/pulse/internal/database"
)

// Client is the main entry point for the pulse library.
//
// Access services via struct fields:
//
//	client.Pipeline.Run(ctx, service.SyncParams{})
//	client.Enrichment.AnalyzeAll(ctx)
type Client struct {
	Pipeline   *service.Pipeline
	Enrichment *service.Enrichment

	db        database.Database
	scheduler *service.Scheduler
	closers   []io.Closer
	logger    *slog.Logger
	dataDir   string
	closed    atomic.Bool
	mu        sync.Mutex
}

// New creates a new Client with the given options. The schema is migrated
// before New returns.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	dbURL, err := buildDatabaseURL(cfg, dataDir)
	if err != nil {
		return nil, fmt.Errorf("build database url: %w", err)
	}

	mapping, err := ingest.LoadMapping(cfg.headerMapFile)
	if err != nil {
		return nil, fmt.Errorf("load header mapping: %w", err)
	}

	engine, closers, err := buildEngine(cfg, dataDir, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, cfg.closers...)

	ctx := context.Background()
	db, err := database.NewDatabaseWithLogger(ctx, dbURL, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open database: %w", err), closeAll(closers))
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose, closeAll(closers))
	}

	cachePath := cfg.cachePath
	if cachePath == "" {
		cachePath = filepath.Join(dataDir, "data.csv")
	}

	loader := source.NewLoader(
		source.WithTimeout(cfg.sourceTimeout),
		source.WithLogger(logger),
	)
	analyzer := service.NewAnalyzer(engine, logger)
	pipeline := service.NewPipeline(
		db,
		storeFactory,
		loader,
		ingest.NewValidator(mapping),
		analyzer,
		logger,
		service.WithDefaultSource(cfg.sourceURL),
		service.WithCachePath(cachePath),
	)

	client := &Client{
		Pipeline:   pipeline,
		Enrichment: service.NewEnrichment(db, storeFactory, analyzer, logger),
		db:         db,
		scheduler:  service.NewScheduler(cfg.periodicSync, pipeline, service.SyncParams{}, logger),
		closers:    closers,
		logger:     logger,
		dataDir:    dataDir,
	}

	if cfg.startScheduler {
		client.scheduler.Start(ctx)
	}

	return client, nil
}

// StartScheduler begins the periodic sync. It is a no-op when periodic
// sync is disabled or already running.
func (c *Client) StartScheduler(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	c.scheduler.Start(ctx)
	return nil
}

// Close stops the scheduler and releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.scheduler.Stop()

	if err := closeAll(c.closers); err != nil {
		c.logger.Error("failed to close resource", slog.Any("error", err))
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("pulse client closed")
	return nil
}

// DataDir returns the prepared data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// storeFactory binds the GORM stores to a database or transaction handle.
func storeFactory(db database.Database) service.Stores {
	return service.Stores{
		Departments: persistence.NewDepartmentStore(db),
		Employees:   persistence.NewEmployeeStore(db),
		Surveys:     persistence.NewSurveyStore(db),
		Responses:   persistence.NewResponseStore(db),
		Sentiments:  persistence.NewSentimentStore(db),
	}
}

// buildDatabaseURL constructs the database URL from configuration. With no
// database configured, a SQLite file in the data directory is used.
func buildDatabaseURL(cfg *clientConfig, dataDir string) (string, error) {
	switch cfg.database {
	case databaseUnset:
		return "sqlite:///" + filepath.Join(dataDir, "pulse.db"), nil
	case databaseSQLite:
		if cfg.dbPath == "" {
			return "", ErrNoDatabase
		}
		return "sqlite:///" + cfg.dbPath, nil
	case databasePostgres, databaseURL:
		if cfg.dbDSN == "" {
			return "", ErrNoDatabase
		}
		return cfg.dbDSN, nil
	default:
		return "", ErrNoDatabase
	}
}

// buildEngine selects the sentiment engine: a caller-supplied engine, the
// OpenAI endpoint, or the local hugot model. A missing local model is not
// fatal; responses are still stored and every prediction fails until the
// model is installed.
func buildEngine(cfg *clientConfig, dataDir string, logger *slog.Logger) (sentiment.Engine, []io.Closer, error) {
	if cfg.engine != nil {
		return cfg.engine, nil, nil
	}

	if cfg.openAI != nil {
		openAICfg := *cfg.openAI
		var closers []io.Closer
		if cfg.httpCacheDir != "" {
			transport, err := provider.NewCachingTransport(cfg.httpCacheDir, openAICfg.Transport)
			if err != nil {
				return nil, nil, fmt.Errorf("http cache: %w", err)
			}
			openAICfg.Transport = transport
			closers = append(closers, transport)
		}
		logger.Info("openai sentiment engine enabled", slog.String("model", openAICfg.Model))
		return provider.NewOpenAISentiment(openAICfg), closers, nil
	}

	modelDir := cfg.modelDir
	if modelDir == "" {
		modelDir = filepath.Join(dataDir, "models")
	}
	engine := provider.NewHugotSentiment(modelDir)
	if engine.Available() {
		logger.Info("built-in sentiment engine enabled", slog.String("model_dir", modelDir))
	} else {
		logger.Warn("no sentiment model found, text answers will not be analyzed until one is installed",
			slog.String("model_dir", modelDir),
		)
	}
	return engine, []io.Closer{engine}, nil
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
