package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deiondz/udal-gp/internal/models"
)

func metricsRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "gram_panchayat_id", "date_recorded", "wet_waste", "dry_waste", "sanitary_waste", "revenue", "compliance_score", "last_updated"}).
		AddRow("m1", "gp-1", now, 120.5, 64.0, 3.2, 1800.0, 87.5, now)
}

func TestMetricsInsertPopulatesDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db)

	mock.ExpectExec("INSERT INTO performance_metrics").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.PerformanceMetrics{GramPanchayatID: "gp-1", WetWaste: 120.5}
	require.NoError(t, repo.Insert(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.DateRecorded.IsZero())
	assert.False(t, record.LastUpdated.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsLatestFor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+metricsColumns+" FROM performance_metrics WHERE gram_panchayat_id = $1 ORDER BY date_recorded DESC LIMIT 1")).
		WithArgs("gp-1").
		WillReturnRows(metricsRows(time.Now()))

	record, err := repo.LatestFor(context.Background(), "gp-1")
	require.NoError(t, err)
	assert.Equal(t, 120.5, record.WetWaste)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsHistoryForBoundedRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db)

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+metricsColumns+" FROM performance_metrics WHERE gram_panchayat_id = $1 AND date_recorded >= $2 AND date_recorded <= $3 ORDER BY date_recorded DESC")).
		WithArgs("gp-1", from, to).
		WillReturnRows(metricsRows(from))

	records, err := repo.HistoryFor(context.Background(), "gp-1", models.MetricsRange{From: from, To: to, Order: models.OrderDesc})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsHistoryForOpenRangeAscending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+metricsColumns+" FROM performance_metrics WHERE gram_panchayat_id = $1 ORDER BY date_recorded ASC")).
		WithArgs("gp-1").
		WillReturnRows(metricsRows(time.Now()))

	_, err := repo.HistoryFor(context.Background(), "gp-1", models.MetricsRange{Order: models.OrderAsc})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsLatestTotals(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db)

	mock.ExpectQuery("SELECT DISTINCT ON").
		WillReturnRows(sqlmock.NewRows([]string{"wet_waste", "dry_waste", "sanitary_waste", "revenue", "avg_compliance_score"}).
			AddRow(420.0, 180.0, 12.5, 5400.0, 82.3))

	totals, err := repo.LatestTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 420.0, totals.WetWaste)
	assert.Equal(t, 82.3, totals.AvgComplianceScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
