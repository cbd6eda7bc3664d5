// Package store implements relational persistence for NEO rows and daily
// analyses on top of gorm.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orbitwatch/neo-data-service/internal/config"
	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/observability"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the NEO and analysis tables, including the
// many-to-many link table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.NearEarthObject{}, &domain.DailyAnalysis{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Store provides NEO and analysis persistence over one database handle.
type Store struct {
	db      *gorm.DB
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Store.
func New(db *gorm.DB, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		db:      db,
		logger:  logger,
		metrics: metrics,
	}
}

// Ping verifies database connectivity, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
