package pipeline

import (
	"context"
	"log/slog"

	"github.com/orbitwatch/neo-data-service/internal/domain"
)

// AnalysisStore is the persistence surface the analyzer needs.
type AnalysisStore interface {
	NeosForDate(ctx context.Context, date string) ([]domain.NearEarthObject, error)
	UpsertAnalysis(ctx context.Context, date string, metrics domain.AnalysisMetrics, neos []domain.NearEarthObject) (*domain.DailyAnalysis, error)
}

// DailyAnalyzer recomputes the summary for a date from the currently stored
// NEO rows and persists it with its object links.
type DailyAnalyzer struct {
	store  AnalysisStore
	logger *slog.Logger
}

// NewAnalyzer creates a DailyAnalyzer.
func NewAnalyzer(store AnalysisStore, logger *slog.Logger) *DailyAnalyzer {
	return &DailyAnalyzer{
		store:  store,
		logger: logger,
	}
}

// AnalyseDate aggregates all stored NEO rows for the date and upserts the
// analysis row. A date with zero stored rows fails with *domain.NoDataError:
// an aggregate must always be backed by data.
func (a *DailyAnalyzer) AnalyseDate(ctx context.Context, date string) (*domain.DailyAnalysis, error) {
	neos, err := a.store.NeosForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(neos) == 0 {
		err := &domain.NoDataError{Date: date}
		a.logger.Error("analysis precondition failed", "date", date, "error", err)
		return nil, err
	}

	metrics := domain.CalculateMetrics(neos)

	analysis, err := a.store.UpsertAnalysis(ctx, date, metrics, neos)
	if err != nil {
		return nil, err
	}

	a.logger.Info("daily analysis updated",
		"date", date,
		"total_neo_count", analysis.TotalNeoCount,
		"max_velocity", analysis.MaxVelocity,
	)
	return analysis, nil
}
