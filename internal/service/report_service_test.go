package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/export"
)

func reportFixtures() (*mockPanchayatRepo, *mockMetricsRepo) {
	gpID := uuid.NewString()
	unitName := "Pachanady MRF"
	panchayats := &mockPanchayatRepo{panchayats: map[string]*models.GramPanchayat{
		gpID: {
			ID: gpID, Name: "Moodbidri", Taluk: "Mangaluru", Village: "Moodbidri",
			Sarpanch: "R. Shetty", Status: models.PanchayatActive,
			MRFMapped: true, MRFUnitName: &unitName,
			Households: 420, Shops: 36, Institutions: 8, SWMSheds: 2,
		},
	}}
	metrics := &mockMetricsRepo{latest: map[string]*models.PerformanceMetrics{
		gpID: {
			GramPanchayatID: gpID,
			DateRecorded:    time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			WetWaste:        120.5, DryWaste: 40, SanitaryWaste: 3.2,
			Revenue: 1800, ComplianceScore: 87.5,
		},
	}}
	return panchayats, metrics
}

func TestReportServiceCSV(t *testing.T) {
	panchayats, metrics := reportFixtures()
	svc := NewReportService(panchayats, metrics, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())

	report, err := svc.PanchayatReport(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.True(t, strings.HasSuffix(report.FileName, ".csv"))

	body := string(report.Content)
	assert.Contains(t, body, "Name,Taluk,Village")
	assert.Contains(t, body, "Moodbidri")
	assert.Contains(t, body, "Pachanady MRF")
	assert.Contains(t, body, "120.50")
	assert.Contains(t, body, "15/08/2026")
}

func TestReportServiceCSVWithoutMetrics(t *testing.T) {
	panchayats, _ := reportFixtures()
	svc := NewReportService(panchayats, &mockMetricsRepo{}, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())

	report, err := svc.PanchayatReport(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(report.Content), ",-,")
}

func TestReportServicePDF(t *testing.T) {
	panchayats, metrics := reportFixtures()
	svc := NewReportService(panchayats, metrics, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())

	report, err := svc.PanchayatReport(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Content), "%PDF"))
}

func TestReportServiceUnknownFormat(t *testing.T) {
	panchayats, metrics := reportFixtures()
	svc := NewReportService(panchayats, metrics, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())

	_, err := svc.PanchayatReport(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
