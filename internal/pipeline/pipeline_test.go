package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/observability"
	"github.com/orbitwatch/neo-data-service/internal/pipeline"
)

const testDate = "2025-11-01"

// --- mocks ---

type mockFetcher struct {
	records []domain.RawNeoRecord
	err     error
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) ([]domain.RawNeoRecord, error) {
	return m.records, m.err
}

type mockStore struct {
	stored int
	err    error
	calls  int
}

func (m *mockStore) StoreForDate(_ context.Context, _ []domain.RawNeoRecord, _ string) (int, error) {
	m.calls++
	return m.stored, m.err
}

type mockAnalyzer struct {
	analysis *domain.DailyAnalysis
	err      error
	calls    int
}

func (m *mockAnalyzer) AnalyseDate(_ context.Context, _ string) (*domain.DailyAnalysis, error) {
	m.calls++
	return m.analysis, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(f *mockFetcher, s *mockStore, a *mockAnalyzer) *pipeline.Pipeline {
	return pipeline.New(f, s, a, testLogger(), observability.NewMetricsForTesting())
}

// --- tests ---

func TestProcessDate_HappyPath(t *testing.T) {
	fetcher := &mockFetcher{records: []domain.RawNeoRecord{{NeoReferenceID: "1001"}}}
	store := &mockStore{stored: 1}
	analyzer := &mockAnalyzer{analysis: &domain.DailyAnalysis{
		ID:            7,
		AnalysisDate:  testDate,
		TotalNeoCount: 1,
	}}

	result, err := newPipeline(fetcher, store, analyzer).ProcessDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, testDate, result.Date)
	assert.Equal(t, 1, result.NeosStored)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, uint(7), result.Analysis.ID)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, analyzer.calls)
}

func TestProcessDate_EmptyFeedShortCircuits(t *testing.T) {
	fetcher := &mockFetcher{records: nil}
	store := &mockStore{}
	analyzer := &mockAnalyzer{}

	result, err := newPipeline(fetcher, store, analyzer).ProcessDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.NeosStored)
	assert.Nil(t, result.Analysis)
	assert.Equal(t, "no NEO data available for this date", result.Message)

	// Neither the store nor the analyzer may run on an empty day.
	assert.Zero(t, store.calls)
	assert.Zero(t, analyzer.calls)
}

func TestProcessDate_FetchErrorPropagatesUnchanged(t *testing.T) {
	fetchErr := &domain.ProviderHTTPError{Status: 503, Body: "overloaded"}
	fetcher := &mockFetcher{err: fetchErr}
	store := &mockStore{}
	analyzer := &mockAnalyzer{}

	result, err := newPipeline(fetcher, store, analyzer).ProcessDate(context.Background(), testDate)
	require.Error(t, err)

	var httpErr *domain.ProviderHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.Status)

	assert.False(t, result.Success)
	assert.Zero(t, store.calls)
	assert.Zero(t, analyzer.calls)
}

func TestProcessDate_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("database is locked")
	fetcher := &mockFetcher{records: []domain.RawNeoRecord{{NeoReferenceID: "1001"}}}
	store := &mockStore{err: storeErr}
	analyzer := &mockAnalyzer{}

	result, err := newPipeline(fetcher, store, analyzer).ProcessDate(context.Background(), testDate)
	require.ErrorIs(t, err, storeErr)

	assert.False(t, result.Success)
	assert.Zero(t, analyzer.calls)
}

func TestProcessDate_AnalyzerErrorPropagates(t *testing.T) {
	fetcher := &mockFetcher{records: []domain.RawNeoRecord{{NeoReferenceID: "1001"}}}
	store := &mockStore{stored: 1}
	analyzer := &mockAnalyzer{err: &domain.NoDataError{Date: testDate}}

	result, err := newPipeline(fetcher, store, analyzer).ProcessDate(context.Background(), testDate)
	require.Error(t, err)

	var noData *domain.NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, testDate, noData.Date)
	assert.False(t, result.Success)
}
