package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/helixml/pulse/internal/config"
)

// Runner performs one sync.
type Runner interface {
	Run(ctx context.Context, params SyncParams) (SyncStats, error)
}

// Scheduler runs the pipeline on start and then on every interval. A failed
// run is retried with exponential backoff before waiting for the next tick.
type Scheduler struct {
	runner        Runner
	params        SyncParams
	logger        *slog.Logger
	interval      time.Duration
	retryAttempts int
	retryDelay    time.Duration
	enabled       bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new Scheduler from config and dependencies.
func NewScheduler(cfg config.PeriodicSyncConfig, runner Runner, params SyncParams, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:        runner,
		params:        params,
		logger:        logger,
		interval:      cfg.Interval(),
		retryAttempts: cfg.RetryAttempts(),
		retryDelay:    cfg.RetryDelay(),
		enabled:       cfg.Enabled(),
	}
}

// Start begins scheduling in a background goroutine.
// If disabled, this is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info("periodic sync disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Go(func() {
		s.loop(ctx)
	})

	s.logger.Info("periodic sync started", slog.Duration("interval", s.interval))
}

// Stop cancels the background goroutine and waits for it to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.logger.Info("periodic sync stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	s.runWithRetry(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runWithRetry(ctx)
		}
	}
}

// runWithRetry makes up to retryAttempts extra attempts, waiting
// retryDelay * 2^attempt before each.
func (s *Scheduler) runWithRetry(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		stats, err := s.runner.Run(ctx, s.params)
		if err == nil {
			s.logger.Info("periodic sync finished",
				slog.Int("created", stats.Created),
				slog.Int("updated", stats.Updated),
				slog.Int("errors", stats.Errors),
			)
			return
		}
		if ctx.Err() != nil {
			return
		}
		if attempt >= s.retryAttempts {
			s.logger.Error("periodic sync failed, giving up until next interval",
				slog.Int("attempts", attempt+1),
				slog.String("error", err.Error()),
			)
			return
		}

		delay := s.retryDelay << attempt
		level := slog.LevelWarn
		if errors.Is(err, ErrRunInProgress) {
			level = slog.LevelInfo
		}
		s.logger.Log(ctx, level, "periodic sync failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
