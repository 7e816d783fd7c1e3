package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type mockMetricsRepo struct {
	inserted []models.PerformanceMetrics
	latest   map[string]*models.PerformanceMetrics
	history  []models.PerformanceMetrics
	lastRng  models.MetricsRange
}

func (m *mockMetricsRepo) Insert(ctx context.Context, rec *models.PerformanceMetrics) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.inserted = append(m.inserted, *rec)
	return nil
}

func (m *mockMetricsRepo) LatestFor(ctx context.Context, gramPanchayatID string) (*models.PerformanceMetrics, error) {
	if rec, ok := m.latest[gramPanchayatID]; ok {
		copy := *rec
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMetricsRepo) HistoryFor(ctx context.Context, gramPanchayatID string, rng models.MetricsRange) ([]models.PerformanceMetrics, error) {
	m.lastRng = rng
	return m.history, nil
}

func TestPerformanceServiceRecord(t *testing.T) {
	repo := &mockMetricsRepo{}
	cache := &mockInvalidator{}
	svc := NewPerformanceService(repo, cache, validator.New(), zap.NewNop())

	gpID := uuid.NewString()
	rec, err := svc.Record(context.Background(), RecordMetricsRequest{
		GramPanchayatID: gpID,
		WetWaste:        120.5,
		DryWaste:        40,
		SanitaryWaste:   3.2,
		Revenue:         1800,
		ComplianceScore: 87.5,
	})
	require.NoError(t, err)
	assert.Equal(t, gpID, rec.GramPanchayatID)
	require.Len(t, repo.inserted, 1)
	assert.Contains(t, cache.patterns, "dash:*")
}

func TestPerformanceServiceRecordRejectsNegatives(t *testing.T) {
	repo := &mockMetricsRepo{}
	svc := NewPerformanceService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Record(context.Background(), RecordMetricsRequest{
		GramPanchayatID: uuid.NewString(),
		WetWaste:        -1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.inserted)
}

func TestPerformanceServiceRecordSkipsExistenceCheck(t *testing.T) {
	// Observations may reference ids that no longer (or never) resolve to a
	// panchayat row; the insert is accepted regardless.
	repo := &mockMetricsRepo{}
	svc := NewPerformanceService(repo, nil, validator.New(), zap.NewNop())

	rec, err := svc.Record(context.Background(), RecordMetricsRequest{GramPanchayatID: uuid.NewString()})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	require.Len(t, repo.inserted, 1)
}

func TestPerformanceServiceRecordKeepsScoreAsReported(t *testing.T) {
	repo := &mockMetricsRepo{}
	svc := NewPerformanceService(repo, nil, validator.New(), zap.NewNop())

	gpID := uuid.NewString()
	rec, err := svc.Record(context.Background(), RecordMetricsRequest{GramPanchayatID: gpID, ComplianceScore: 130})
	require.NoError(t, err)
	assert.Equal(t, 130.0, rec.ComplianceScore)

	// Scores outside 0..100, including negative ones, are not clamped.
	rec, err = svc.Record(context.Background(), RecordMetricsRequest{GramPanchayatID: gpID, ComplianceScore: -5})
	require.NoError(t, err)
	assert.Equal(t, -5.0, rec.ComplianceScore)
}

func TestPerformanceServiceLatestAbsent(t *testing.T) {
	svc := NewPerformanceService(&mockMetricsRepo{}, nil, validator.New(), zap.NewNop())

	rec, err := svc.Latest(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPerformanceServiceHistoryDefaultsDescending(t *testing.T) {
	repo := &mockMetricsRepo{}
	svc := NewPerformanceService(repo, nil, validator.New(), zap.NewNop())

	history, err := svc.History(context.Background(), uuid.NewString(), HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, models.OrderDesc, repo.lastRng.Order)

	_, err = svc.History(context.Background(), uuid.NewString(), HistoryQuery{Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderAsc, repo.lastRng.Order)
}

func TestPerformanceServiceHistoryInvertedWindow(t *testing.T) {
	svc := NewPerformanceService(&mockMetricsRepo{}, nil, validator.New(), zap.NewNop())

	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)
	_, err := svc.History(context.Background(), uuid.NewString(), HistoryQuery{From: from, To: to})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
