package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type metricsRepository interface {
	Insert(ctx context.Context, m *models.PerformanceMetrics) error
	LatestFor(ctx context.Context, gramPanchayatID string) (*models.PerformanceMetrics, error)
	HistoryFor(ctx context.Context, gramPanchayatID string, rng models.MetricsRange) ([]models.PerformanceMetrics, error)
}

// RecordMetricsRequest is one performance observation for a panchayat.
// DateRecorded of zero means "now". Compliance scores are stored as reported.
type RecordMetricsRequest struct {
	GramPanchayatID string    `json:"gramPanchayatId" validate:"required,uuid"`
	DateRecorded    time.Time `json:"dateRecorded"`
	WetWaste        float64   `json:"wetWaste" validate:"gte=0"`
	DryWaste        float64   `json:"dryWaste" validate:"gte=0"`
	SanitaryWaste   float64   `json:"sanitaryWaste" validate:"gte=0"`
	Revenue         float64   `json:"revenue" validate:"gte=0"`
	ComplianceScore float64   `json:"complianceScore"`
}

// HistoryQuery bounds a metrics history request.
type HistoryQuery struct {
	From  time.Time `form:"from" time_format:"2006-01-02"`
	To    time.Time `form:"to" time_format:"2006-01-02"`
	Order string    `form:"order" validate:"omitempty,oneof=asc desc"`
}

// PerformanceService handles the append-only performance metrics log.
type PerformanceService struct {
	repo      metricsRepository
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPerformanceService creates an instance of PerformanceService.
func NewPerformanceService(repo metricsRepository, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *PerformanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PerformanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Record appends a new observation for a panchayat. The referenced panchayat
// is not checked for existence; existing records are never modified.
func (s *PerformanceService) Record(ctx context.Context, req RecordMetricsRequest) (*models.PerformanceMetrics, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid metrics payload")
	}

	m := &models.PerformanceMetrics{
		GramPanchayatID: req.GramPanchayatID,
		DateRecorded:    req.DateRecorded,
		WetWaste:        req.WetWaste,
		DryWaste:        req.DryWaste,
		SanitaryWaste:   req.SanitaryWaste,
		Revenue:         req.Revenue,
		ComplianceScore: req.ComplianceScore,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record metrics")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}
	return m, nil
}

// Latest returns the most recent observation for a panchayat, or nil when the
// panchayat has no records.
func (s *PerformanceService) Latest(ctx context.Context, gramPanchayatID string) (*models.PerformanceMetrics, error) {
	if _, err := uuid.Parse(gramPanchayatID); err != nil {
		return nil, nil
	}
	m, err := s.repo.LatestFor(ctx, gramPanchayatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest metrics")
	}
	return m, nil
}

// History returns a panchayat's observations inside the requested window,
// newest first unless asked otherwise.
func (s *PerformanceService) History(ctx context.Context, gramPanchayatID string, q HistoryQuery) ([]models.PerformanceMetrics, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid history query")
	}
	if _, err := uuid.Parse(gramPanchayatID); err != nil {
		return []models.PerformanceMetrics{}, nil
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "history window end precedes its start")
	}

	order := models.OrderDesc
	if q.Order == string(models.OrderAsc) {
		order = models.OrderAsc
	}
	history, err := s.repo.HistoryFor(ctx, gramPanchayatID, models.MetricsRange{From: q.From, To: q.To, Order: order})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load metrics history")
	}
	if history == nil {
		history = []models.PerformanceMetrics{}
	}
	return history, nil
}
