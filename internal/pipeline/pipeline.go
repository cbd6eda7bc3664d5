// Package pipeline orchestrates the daily fetch-store-analyse run.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/observability"
)

// Fetcher retrieves raw feed records for one calendar date.
type Fetcher interface {
	Fetch(ctx context.Context, date string) ([]domain.RawNeoRecord, error)
}

// RecordStore transforms and persists raw records for one date, returning
// the number actually stored.
type RecordStore interface {
	StoreForDate(ctx context.Context, raws []domain.RawNeoRecord, date string) (int, error)
}

// Analyzer recomputes and persists the daily analysis for one date.
type Analyzer interface {
	AnalyseDate(ctx context.Context, date string) (*domain.DailyAnalysis, error)
}

// Result is the structured outcome of a pipeline run.
type Result struct {
	Success    bool                  `json:"success"`
	Date       string                `json:"date"`
	NeosStored int                   `json:"neos_stored"`
	Analysis   *domain.DailyAnalysis `json:"analysis,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// Pipeline sequences fetch, store, and analyse for a single date.
type Pipeline struct {
	fetcher  Fetcher
	store    RecordStore
	analyzer Analyzer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(f Fetcher, s RecordStore, a Analyzer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:  f,
		store:    s,
		analyzer: a,
		logger:   logger,
		metrics:  metrics,
	}
}

// ProcessDate runs the full pipeline for one date. An empty feed is a
// successful no-op: nothing is stored and no analysis is computed. Any
// stage failure is logged and returned unchanged; no partial success is
// reported.
func (p *Pipeline) ProcessDate(ctx context.Context, date string) (Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "date", date)
	start := time.Now()

	raws, err := p.fetcher.Fetch(ctx, date)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return Result{Date: date}, err
	}

	if len(raws) == 0 {
		logger.Info("no NEO data available")
		p.metrics.RunsTotal.WithLabelValues("empty").Inc()
		return Result{
			Success: true,
			Date:    date,
			Message: "no NEO data available for this date",
		}, nil
	}

	stored, err := p.store.StoreForDate(ctx, raws, date)
	if err != nil {
		logger.Error("store failed", "error", err)
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return Result{Date: date}, err
	}

	analysis, err := p.analyzer.AnalyseDate(ctx, date)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return Result{Date: date}, err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	logger.Info("NEO data processed",
		"neos_stored", stored,
		"total_neo_count", analysis.TotalNeoCount,
	)

	return Result{
		Success:    true,
		Date:       date,
		NeosStored: stored,
		Analysis:   analysis,
	}, nil
}
