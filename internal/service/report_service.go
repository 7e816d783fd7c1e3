package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/export"
)

type reportPanchayatSource interface {
	List(ctx context.Context) ([]models.GramPanchayat, error)
}

type reportMetricsSource interface {
	LatestFor(ctx context.Context, gramPanchayatID string) (*models.PerformanceMetrics, error)
}

type datasetExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledExporter interface {
	Render(data export.Dataset, title string, generatedAt time.Time) ([]byte, error)
}

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

// Report is a rendered export ready to be written to the response.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders the panchayat registry, joined with each panchayat's
// latest performance observation, as CSV or PDF.
type ReportService struct {
	panchayats reportPanchayatSource
	metrics    reportMetricsSource
	csv        datasetExporter
	pdf        titledExporter
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService creates an instance of ReportService.
func NewReportService(panchayats reportPanchayatSource, metrics reportMetricsSource, csv datasetExporter, pdf titledExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{panchayats: panchayats, metrics: metrics, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// PanchayatReport renders the full registry in the requested format.
func (s *ReportService) PanchayatReport(ctx context.Context, format ReportFormat) (*Report, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	data, err := s.buildDataset(ctx)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	stamp := generatedAt.Format("2006-01-02")

	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(data, "Gram Panchayat Performance Report", generatedAt)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{
			FileName:    fmt.Sprintf("panchayat-report-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{
			FileName:    fmt.Sprintf("panchayat-report-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

func (s *ReportService) buildDataset(ctx context.Context) (export.Dataset, error) {
	panchayats, err := s.panchayats.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list panchayats")
	}

	data := export.Dataset{
		Headers: []string{
			"Name", "Taluk", "Village", "Sarpanch", "Status", "MRF Unit",
			"Households", "Shops", "Institutions", "SWM Sheds",
			"Wet Waste (kg)", "Dry Waste (kg)", "Sanitary Waste (kg)",
			"Revenue", "Compliance Score", "Last Recorded",
		},
		Rows: make([]map[string]string, 0, len(panchayats)),
	}

	for _, gp := range panchayats {
		row := map[string]string{
			"Name":         gp.Name,
			"Taluk":        gp.Taluk,
			"Village":      gp.Village,
			"Sarpanch":     gp.Sarpanch,
			"Status":       string(gp.Status),
			"MRF Unit":     "-",
			"Households":   fmt.Sprintf("%d", gp.Households),
			"Shops":        fmt.Sprintf("%d", gp.Shops),
			"Institutions": fmt.Sprintf("%d", gp.Institutions),
			"SWM Sheds":    fmt.Sprintf("%d", gp.SWMSheds),
		}
		if gp.MRFUnitName != nil {
			row["MRF Unit"] = *gp.MRFUnitName
		}

		latest, err := s.metrics.LatestFor(ctx, gp.ID)
		if err != nil || latest == nil {
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("skipping metrics for report row", zap.String("panchayat_id", gp.ID), zap.Error(err))
			}
			for _, h := range []string{"Wet Waste (kg)", "Dry Waste (kg)", "Sanitary Waste (kg)", "Revenue", "Compliance Score", "Last Recorded"} {
				row[h] = "-"
			}
		} else {
			row["Wet Waste (kg)"] = fmt.Sprintf("%.2f", latest.WetWaste)
			row["Dry Waste (kg)"] = fmt.Sprintf("%.2f", latest.DryWaste)
			row["Sanitary Waste (kg)"] = fmt.Sprintf("%.2f", latest.SanitaryWaste)
			row["Revenue"] = fmt.Sprintf("%.2f", latest.Revenue)
			row["Compliance Score"] = fmt.Sprintf("%.1f", latest.ComplianceScore)
			row["Last Recorded"] = latest.DateRecorded.Format("02/01/2006")
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}
