// Package integration exercises the full fetch-store-analyse path against
// an in-memory database and a stubbed provider feed.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orbitwatch/neo-data-service/internal/adapter/nasa"
	"github.com/orbitwatch/neo-data-service/internal/adapter/store"
	"github.com/orbitwatch/neo-data-service/internal/config"
	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/observability"
	"github.com/orbitwatch/neo-data-service/internal/pipeline"
)

const testDate = "2025-11-01"

// feedStub serves a mutable NeoWs-shaped feed document.
type feedStub struct {
	mu      sync.Mutex
	records []domain.RawNeoRecord
	srv     *httptest.Server
}

func newFeedStub(t *testing.T) *feedStub {
	t.Helper()
	stub := &feedStub{}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		defer stub.mu.Unlock()

		date := r.URL.Query().Get("start_date")
		body := map[string]any{
			"near_earth_objects": map[string][]domain.RawNeoRecord{date: stub.records},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func (s *feedStub) setRecords(records []domain.RawNeoRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

type testEnv struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	feed     *feedStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A named shared-cache DSN keeps gorm's pooled connections on one
	// in-memory database, isolated per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	feed := newFeedStub(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	cfg := &config.Config{
		NasaAPIKey:        "integration-test-key",
		NasaBaseURL:       feed.srv.URL,
		NasaTimeout:       5 * time.Second,
		NasaRetryAttempts: 3,
		NasaRetryDelay:    time.Millisecond,
	}

	st := store.New(db, logger, metrics)
	client := nasa.NewClient(cfg, logger, metrics)
	analyzer := pipeline.NewAnalyzer(st, logger)

	return &testEnv{
		pipeline: pipeline.New(client, st, analyzer, logger, metrics),
		store:    st,
		feed:     feed,
	}
}

func record(id string, diaMin, diaMax float64, km, kmps string) domain.RawNeoRecord {
	return domain.RawNeoRecord{
		NeoReferenceID:     id,
		Name:               "NEO " + id,
		AbsoluteMagnitudeH: 20,
		EstimatedDiameter: domain.EstimatedDiameter{
			Meters: domain.DiameterRange{Min: diaMin, Max: diaMax},
		},
		CloseApproachData: []domain.CloseApproach{
			{
				CloseApproachDate: testDate,
				MissDistance:      domain.MissDistance{Kilometers: km},
				RelativeVelocity:  domain.RelativeVelocity{KilometersPerSecond: kmps},
			},
		},
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.feed.setRecords([]domain.RawNeoRecord{
		record("1001", 100, 500, "5000", "20"),
		record("1002", 200, 600, "3000", "30"),
		record("1003", 300, 700, "4000", "25"),
	})

	result, err := env.pipeline.ProcessDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.NeosStored)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 3, result.Analysis.TotalNeoCount)
	assert.Equal(t, 200.00, result.Analysis.AverageDiameterMin)
	assert.Equal(t, 600.00, result.Analysis.AverageDiameterMax)
	assert.Equal(t, 30000.00, result.Analysis.MaxVelocity)
	assert.Equal(t, 3000000.00, result.Analysis.SmallestMissDistance)

	ids, err := env.store.LinkedNeoIDs(context.Background(), result.Analysis.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestPipeline_RepeatedRunsAreIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.feed.setRecords([]domain.RawNeoRecord{
		record("1001", 100, 500, "5000", "20"),
	})
	ctx := context.Background()

	first, err := env.pipeline.ProcessDate(ctx, testDate)
	require.NoError(t, err)

	second, err := env.pipeline.ProcessDate(ctx, testDate)
	require.NoError(t, err)

	assert.Equal(t, first.Analysis.ID, second.Analysis.ID)

	neos, err := env.store.NeosForDate(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, neos, 1)
}

func TestPipeline_AggregateTracksEvolvingDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.feed.setRecords([]domain.RawNeoRecord{
		record("1001", 100, 500, "5000", "20"),
	})
	first, err := env.pipeline.ProcessDate(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Analysis.TotalNeoCount)

	// The provider's day grows on a later run; the same analysis row must
	// recompute over the full set and relink.
	env.feed.setRecords([]domain.RawNeoRecord{
		record("1001", 100, 500, "5000", "20"),
		record("1002", 200, 600, "3000", "30"),
	})
	second, err := env.pipeline.ProcessDate(ctx, testDate)
	require.NoError(t, err)

	assert.Equal(t, first.Analysis.ID, second.Analysis.ID)
	assert.Equal(t, 2, second.Analysis.TotalNeoCount)
	assert.Equal(t, 30000.00, second.Analysis.MaxVelocity)
	assert.Equal(t, 3000000.00, second.Analysis.SmallestMissDistance)

	ids, err := env.store.LinkedNeoIDs(ctx, second.Analysis.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestPipeline_EmptyFeed(t *testing.T) {
	env := newTestEnv(t)
	env.feed.setRecords(nil)

	result, err := env.pipeline.ProcessDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.NeosStored)
	assert.Nil(t, result.Analysis)

	analyses, err := env.store.ListAnalyses(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, analyses)
}
