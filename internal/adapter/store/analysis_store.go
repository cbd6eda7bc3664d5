package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orbitwatch/neo-data-service/internal/domain"
)

// UpsertAnalysis writes the analysis row for a date and replaces its linked
// NEO set, atomically. An existing row for the date is updated in place and
// keeps its id. The link table is fully rewritten (delete all, insert
// current membership) so the linked set always equals the rows the metrics
// were computed from.
func (s *Store) UpsertAnalysis(ctx context.Context, date string, metrics domain.AnalysisMetrics, neos []domain.NearEarthObject) (*domain.DailyAnalysis, error) {
	var analysis domain.DailyAnalysis

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("analysis_date = ?", date).First(&analysis).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			analysis = domain.DailyAnalysis{AnalysisDate: date}
			applyMetrics(&analysis, metrics)
			if err := tx.Create(&analysis).Error; err != nil {
				return fmt.Errorf("create analysis for %s: %w", date, err)
			}
		case err != nil:
			return fmt.Errorf("load analysis for %s: %w", date, err)
		default:
			applyMetrics(&analysis, metrics)
			// Select forces zero-valued fields through; a count that drops
			// to match fewer rows must still be written.
			if err := tx.Model(&analysis).
				Select("total_neo_count", "average_diameter_min", "average_diameter_max",
					"max_velocity", "smallest_miss_distance", "updated_at").
				Updates(&analysis).Error; err != nil {
				return fmt.Errorf("update analysis for %s: %w", date, err)
			}
		}

		if err := replaceLinks(tx, analysis.ID, neos); err != nil {
			return fmt.Errorf("relink analysis for %s: %w", date, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("analysis upsert failed", "date", date, "error", err)
		return nil, err
	}

	s.metrics.AnalysesUpserted.Inc()
	return &analysis, nil
}

func applyMetrics(analysis *domain.DailyAnalysis, metrics domain.AnalysisMetrics) {
	analysis.TotalNeoCount = metrics.TotalNeoCount
	analysis.AverageDiameterMin = metrics.AverageDiameterMin
	analysis.AverageDiameterMax = metrics.AverageDiameterMax
	analysis.MaxVelocity = metrics.MaxVelocity
	analysis.SmallestMissDistance = metrics.SmallestMissDistance
}

// replaceLinks rewrites the analysis↔NEO link table rows for one analysis.
func replaceLinks(tx *gorm.DB, analysisID uint, neos []domain.NearEarthObject) error {
	err := tx.Exec(
		"DELETE FROM daily_analysis_near_earth_objects WHERE daily_analysis_id = ?",
		analysisID,
	).Error
	if err != nil {
		return err
	}

	for _, neo := range neos {
		err := tx.Exec(
			"INSERT INTO daily_analysis_near_earth_objects (daily_analysis_id, near_earth_object_id) VALUES (?, ?)",
			analysisID, neo.ID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// LinkedNeoIDs returns the ids of the NEO rows linked to an analysis.
func (s *Store) LinkedNeoIDs(ctx context.Context, analysisID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("daily_analysis_near_earth_objects").
		Where("daily_analysis_id = ?", analysisID).
		Order("near_earth_object_id").
		Pluck("near_earth_object_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load links for analysis %d: %w", analysisID, err)
	}
	return ids, nil
}

// ListAnalyses returns analysis rows ordered by date descending. When both
// start and end are non-empty the result is limited to the inclusive range;
// otherwise all rows are returned.
func (s *Store) ListAnalyses(ctx context.Context, start, end string) ([]domain.DailyAnalysis, error) {
	query := s.db.WithContext(ctx).Model(&domain.DailyAnalysis{})
	if start != "" && end != "" {
		query = query.Where("analysis_date BETWEEN ? AND ?", start, end)
	}

	analyses := make([]domain.DailyAnalysis, 0)
	if err := query.Order("analysis_date DESC").Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return analyses, nil
}
