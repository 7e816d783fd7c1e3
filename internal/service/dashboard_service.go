package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type panchayatCounter interface {
	Count(ctx context.Context) (total, active, mapped int, err error)
}

type fleetMetricsRepository interface {
	TrendByDate(ctx context.Context, from, to time.Time) ([]models.WasteTrendPoint, error)
	LatestTotals(ctx context.Context) (*models.FleetTotals, error)
}

type dashboardCache interface {
	Enabled() bool
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardSummary is the headline card data of the admin dashboard: fleet
// totals from each panchayat's latest observation plus mapping coverage.
type DashboardSummary struct {
	TotalPanchayats    int     `json:"totalPanchayats"`
	ActivePanchayats   int     `json:"activePanchayats"`
	MappedPanchayats   int     `json:"mappedPanchayats"`
	WetWaste           float64 `json:"wetWaste"`
	DryWaste           float64 `json:"dryWaste"`
	SanitaryWaste      float64 `json:"sanitaryWaste"`
	Revenue            float64 `json:"revenue"`
	AvgComplianceScore float64 `json:"avgComplianceScore"`
}

const (
	summaryCacheKey    = "dash:summary"
	trendCacheKeyShape = "dash:trend:%s:%s"
)

// DashboardService aggregates fleet-wide figures for the admin dashboard,
// serving them from cache when one is configured.
type DashboardService struct {
	panchayats panchayatCounter
	metrics    fleetMetricsRepository
	cache      dashboardCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDashboardService creates an instance of DashboardService.
func NewDashboardService(panchayats panchayatCounter, metrics fleetMetricsRepository, cache dashboardCache, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{panchayats: panchayats, metrics: metrics, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Summary returns the dashboard headline figures.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cacheEnabled() {
		var cached DashboardSummary
		if hit, err := s.cache.Get(ctx, summaryCacheKey, &cached); err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	total, active, mapped, err := s.panchayats.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count panchayats")
	}
	totals, err := s.metrics.LatestTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate metrics")
	}

	summary := &DashboardSummary{
		TotalPanchayats:  total,
		ActivePanchayats: active,
		MappedPanchayats: mapped,
	}
	if totals != nil {
		summary.WetWaste = totals.WetWaste
		summary.DryWaste = totals.DryWaste
		summary.SanitaryWaste = totals.SanitaryWaste
		summary.Revenue = totals.Revenue
		summary.AvgComplianceScore = totals.AvgComplianceScore
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, summaryCacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Trend returns the fleet-wide per-day waste and revenue series for the given
// window. A zero window defaults to the last 30 days.
func (s *DashboardService) Trend(ctx context.Context, from, to time.Time) ([]models.WasteTrendPoint, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trend window end precedes its start")
	}

	key := fmt.Sprintf(trendCacheKeyShape, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if s.cacheEnabled() {
		var cached []models.WasteTrendPoint
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	points, err := s.metrics.TrendByDate(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load waste trend")
	}
	if points == nil {
		points = []models.WasteTrendPoint{}
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, points, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return points, nil
}

func (s *DashboardService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Enabled()
}
