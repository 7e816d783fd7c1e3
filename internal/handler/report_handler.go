package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deiondz/udal-gp/internal/service"
	"github.com/deiondz/udal-gp/pkg/response"
)

// ReportHandler handles the report export endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Panchayats godoc
// @Summary Export panchayat report
// @Description Download the panchayat registry with latest performance figures as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/panchayats [get]
func (h *ReportHandler) Panchayats(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))

	report, err := h.service.PanchayatReport(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
