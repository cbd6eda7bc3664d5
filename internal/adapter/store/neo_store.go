package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orbitwatch/neo-data-service/internal/domain"
)

// neoUpdateColumns are the mutable columns refreshed when an upsert matches
// an existing (neo_reference_id, close_approach_date) row.
var neoUpdateColumns = []string{
	"name",
	"estimated_diameter_min",
	"estimated_diameter_max",
	"is_hazardous",
	"absolute_magnitude",
	"miss_distance",
	"relative_velocity",
	"updated_at",
}

// StoreForDate transforms raw feed records for the given date and upserts
// them in a single transaction. Records without a close-approach sub-record
// for the date are skipped with a warning and excluded from the returned
// count. Any database error rolls back the whole batch.
func (s *Store) StoreForDate(ctx context.Context, raws []domain.RawNeoRecord, date string) (int, error) {
	stored := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, raw := range raws {
			neo, ok := domain.TransformRecord(raw, date)
			if !ok {
				s.logger.Warn("no matching close approach, skipping record",
					"neo_id", raw.NeoReferenceID, "date", date)
				s.metrics.RecordsSkipped.Inc()
				continue
			}

			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "neo_reference_id"},
					{Name: "close_approach_date"},
				},
				DoUpdates: clause.AssignmentColumns(neoUpdateColumns),
			}).Create(&neo).Error
			if err != nil {
				return fmt.Errorf("upsert NEO %s for %s: %w", neo.NeoReferenceID, date, err)
			}

			stored++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("store batch failed", "date", date, "error", err)
		return 0, err
	}

	s.metrics.NeosStored.Add(float64(stored))
	return stored, nil
}

// NeosForDate returns all stored NEO rows whose close-approach date equals
// the given date.
func (s *Store) NeosForDate(ctx context.Context, date string) ([]domain.NearEarthObject, error) {
	var neos []domain.NearEarthObject
	err := s.db.WithContext(ctx).
		Where("close_approach_date = ?", date).
		Find(&neos).Error
	if err != nil {
		return nil, fmt.Errorf("load NEOs for %s: %w", date, err)
	}
	return neos, nil
}
