// Package scheduler triggers the daily pipeline run on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/orbitwatch/neo-data-service/internal/config"
	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/pipeline"
)

// Runner is the pipeline surface the scheduler drives.
type Runner interface {
	ProcessDate(ctx context.Context, date string) (pipeline.Result, error)
}

// Scheduler runs the pipeline once daily at the configured time and
// timezone. Overlapping runs are skipped rather than queued, and a panic in
// a run is recovered, so one bad day cannot take the service down.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *slog.Logger
}

// New creates a Scheduler from config. The job processes yesterday's date,
// matching the feed's publication cadence.
func New(cfg *config.Config, runner Runner, logger *slog.Logger) (*Scheduler, error) {
	hour, minute, err := config.ParseScheduleTime(cfg.ScheduleTime)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.ScheduleTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.ScheduleTimezone, err)
	}

	s := &Scheduler{
		runner: runner,
		logger: logger,
	}

	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		),
	)

	expr := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := s.cron.AddFunc(expr, s.runDaily); err != nil {
		return nil, fmt.Errorf("register daily job: %w", err)
	}

	logger.Info("daily processing scheduled",
		"time", cfg.ScheduleTime, "timezone", cfg.ScheduleTimezone)
	return s, nil
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDaily() {
	date := domain.Yesterday()
	s.logger.Info("scheduled NEO processing starting", "date", date)

	result, err := s.runner.ProcessDate(context.Background(), date)
	if err != nil {
		s.logger.Error("scheduled NEO processing failed", "date", date, "error", err)
		return
	}

	s.logger.Info("scheduled NEO processing completed",
		"date", date,
		"neos_stored", result.NeosStored,
		"message", result.Message,
	)
}
