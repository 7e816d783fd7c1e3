package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deiondz/udal-gp/internal/models"
)

const metricsColumns = "id, gram_panchayat_id, date_recorded, wet_waste, dry_waste, sanitary_waste, revenue, compliance_score, last_updated"

// MetricsRepository provides database access for performance observations.
type MetricsRepository struct {
	db *sqlx.DB
}

// NewMetricsRepository creates a new instance of MetricsRepository.
func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Insert stores a new observation. Records are append-only.
func (r *MetricsRepository) Insert(ctx context.Context, m *models.PerformanceMetrics) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.DateRecorded.IsZero() {
		m.DateRecorded = now
	}
	if m.LastUpdated.IsZero() {
		m.LastUpdated = now
	}

	const query = `INSERT INTO performance_metrics (id, gram_panchayat_id, date_recorded, wet_waste, dry_waste, sanitary_waste, revenue, compliance_score, last_updated) VALUES (:id, :gram_panchayat_id, :date_recorded, :wet_waste, :dry_waste, :sanitary_waste, :revenue, :compliance_score, :last_updated)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("insert performance metrics: %w", err)
	}
	return nil
}

// LatestFor returns the most recent observation for a panchayat.
func (r *MetricsRepository) LatestFor(ctx context.Context, gramPanchayatID string) (*models.PerformanceMetrics, error) {
	query := fmt.Sprintf(`SELECT %s FROM performance_metrics WHERE gram_panchayat_id = $1 ORDER BY date_recorded DESC LIMIT 1`, metricsColumns)
	var record models.PerformanceMetrics
	if err := r.db.GetContext(ctx, &record, query, gramPanchayatID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("latest performance metrics: %w", err)
	}
	return &record, nil
}

// HistoryFor returns observations for a panchayat within the range, ordered
// per the caller's request.
func (r *MetricsRepository) HistoryFor(ctx context.Context, gramPanchayatID string, rng models.MetricsRange) ([]models.PerformanceMetrics, error) {
	conditions := []string{"gram_panchayat_id = $1"}
	args := []interface{}{gramPanchayatID}

	if !rng.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date_recorded >= $%d", len(args)+1))
		args = append(args, rng.From)
	}
	if !rng.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date_recorded <= $%d", len(args)+1))
		args = append(args, rng.To)
	}

	order := "ASC"
	if rng.Order == models.OrderDesc {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM performance_metrics WHERE %s ORDER BY date_recorded %s", metricsColumns, strings.Join(conditions, " AND "), order)
	var records []models.PerformanceMetrics
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("performance metrics history: %w", err)
	}
	return records, nil
}

// TrendByDate sums observations across all panchayats grouped by day.
func (r *MetricsRepository) TrendByDate(ctx context.Context, from, to time.Time) ([]models.WasteTrendPoint, error) {
	const query = `SELECT TO_CHAR(date_recorded, 'YYYY-MM-DD') AS date, COALESCE(SUM(wet_waste), 0) AS wet_waste, COALESCE(SUM(dry_waste), 0) AS dry_waste, COALESCE(SUM(sanitary_waste), 0) AS sanitary_waste, COALESCE(SUM(revenue), 0) AS revenue FROM performance_metrics WHERE date_recorded >= $1 AND date_recorded <= $2 GROUP BY 1 ORDER BY 1`
	var points []models.WasteTrendPoint
	if err := r.db.SelectContext(ctx, &points, query, from, to); err != nil {
		return nil, fmt.Errorf("performance metrics trend: %w", err)
	}
	return points, nil
}

// LatestTotals aggregates each panchayat's newest observation into fleet totals.
func (r *MetricsRepository) LatestTotals(ctx context.Context) (*models.FleetTotals, error) {
	const query = `SELECT COALESCE(SUM(wet_waste), 0) AS wet_waste, COALESCE(SUM(dry_waste), 0) AS dry_waste, COALESCE(SUM(sanitary_waste), 0) AS sanitary_waste, COALESCE(SUM(revenue), 0) AS revenue, COALESCE(AVG(compliance_score), 0) AS avg_compliance_score FROM (SELECT DISTINCT ON (gram_panchayat_id) wet_waste, dry_waste, sanitary_waste, revenue, compliance_score FROM performance_metrics ORDER BY gram_panchayat_id, date_recorded DESC) latest`
	var totals models.FleetTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("performance metrics totals: %w", err)
	}
	return &totals, nil
}
