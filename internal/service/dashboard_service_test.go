package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
)

type mockCounter struct {
	total, active, mapped int
	calls                 int
	err                   error
}

func (m *mockCounter) Count(ctx context.Context) (int, int, int, error) {
	m.calls++
	if m.err != nil {
		return 0, 0, 0, m.err
	}
	return m.total, m.active, m.mapped, nil
}

type mockFleetRepo struct {
	totals     *models.FleetTotals
	trend      []models.WasteTrendPoint
	trendCalls int
	lastFrom   time.Time
	lastTo     time.Time
}

func (m *mockFleetRepo) TrendByDate(ctx context.Context, from, to time.Time) ([]models.WasteTrendPoint, error) {
	m.trendCalls++
	m.lastFrom, m.lastTo = from, to
	return m.trend, nil
}

func (m *mockFleetRepo) LatestTotals(ctx context.Context) (*models.FleetTotals, error) {
	return m.totals, nil
}

type mockDashCache struct {
	store map[string][]byte
	sets  int
}

func (m *mockDashCache) Enabled() bool { return true }

func (m *mockDashCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mockDashCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	m.sets++
	return nil
}

func TestDashboardServiceSummary(t *testing.T) {
	counter := &mockCounter{total: 12, active: 10, mapped: 7}
	metrics := &mockFleetRepo{totals: &models.FleetTotals{WetWaste: 540, DryWaste: 210, Revenue: 9000, AvgComplianceScore: 82.5}}
	svc := NewDashboardService(counter, metrics, nil, 0, zap.NewNop())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalPanchayats)
	assert.Equal(t, 10, summary.ActivePanchayats)
	assert.Equal(t, 7, summary.MappedPanchayats)
	assert.Equal(t, 540.0, summary.WetWaste)
	assert.Equal(t, 82.5, summary.AvgComplianceScore)
}

func TestDashboardServiceSummaryCached(t *testing.T) {
	counter := &mockCounter{total: 12, active: 10, mapped: 7}
	metrics := &mockFleetRepo{totals: &models.FleetTotals{}}
	cache := &mockDashCache{}
	svc := NewDashboardService(counter, metrics, cache, time.Minute, zap.NewNop())

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, 1, cache.sets)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls, "second read is served from cache")
	assert.Equal(t, 12, summary.TotalPanchayats)
}

func TestDashboardServiceSummaryNoObservations(t *testing.T) {
	counter := &mockCounter{total: 3}
	metrics := &mockFleetRepo{totals: nil}
	svc := NewDashboardService(counter, metrics, nil, 0, zap.NewNop())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPanchayats)
	assert.Zero(t, summary.WetWaste)
	assert.Zero(t, summary.AvgComplianceScore)
}

func TestDashboardServiceSummaryCountError(t *testing.T) {
	counter := &mockCounter{err: errors.New("db down")}
	svc := NewDashboardService(counter, &mockFleetRepo{}, nil, 0, zap.NewNop())

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}

func TestDashboardServiceTrendDefaultsWindow(t *testing.T) {
	metrics := &mockFleetRepo{trend: []models.WasteTrendPoint{{Date: "2026-08-01", WetWaste: 20}}}
	svc := NewDashboardService(&mockCounter{}, metrics, nil, 0, zap.NewNop())

	points, err := svc.Trend(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.WithinDuration(t, time.Now().UTC(), metrics.lastTo, time.Minute)
	assert.WithinDuration(t, metrics.lastTo.AddDate(0, 0, -30), metrics.lastFrom, time.Minute)
}

func TestDashboardServiceTrendInvertedWindow(t *testing.T) {
	svc := NewDashboardService(&mockCounter{}, &mockFleetRepo{}, nil, 0, zap.NewNop())

	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, 7)
	_, err := svc.Trend(context.Background(), from, to)
	require.Error(t, err)
}

func TestDashboardServiceTrendCached(t *testing.T) {
	metrics := &mockFleetRepo{trend: []models.WasteTrendPoint{{Date: "2026-08-01"}}}
	cache := &mockDashCache{}
	svc := NewDashboardService(&mockCounter{}, metrics, cache, time.Minute, zap.NewNop())

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	_, err := svc.Trend(context.Background(), from, to)
	require.NoError(t, err)
	_, err = svc.Trend(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.trendCalls)
}
