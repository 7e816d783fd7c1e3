package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deiondz/udal-gp/internal/service"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/response"
)

// PerformanceHandler handles the performance metrics endpoints.
type PerformanceHandler struct {
	service *service.PerformanceService
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(svc *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{service: svc}
}

// Record godoc
// @Summary Record metrics
// @Description Append a performance observation for a panchayat
// @Tags Metrics
// @Accept json
// @Produce json
// @Param payload body service.RecordMetricsRequest true "Metrics payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /metrics [post]
func (h *PerformanceHandler) Record(c *gin.Context) {
	var req service.RecordMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	rec, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// Latest godoc
// @Summary Latest metrics
// @Description Get the most recent observation for a panchayat
// @Tags Metrics
// @Produce json
// @Param id path string true "Panchayat ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /panchayats/{id}/metrics/latest [get]
func (h *PerformanceHandler) Latest(c *gin.Context) {
	rec, err := h.service.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if rec == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no metrics recorded"))
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// History godoc
// @Summary Metrics history
// @Description Get a panchayat's observations inside a date window
// @Tags Metrics
// @Produce json
// @Param id path string true "Panchayat ID"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /panchayats/{id}/metrics [get]
func (h *PerformanceHandler) History(c *gin.Context) {
	q := service.HistoryQuery{Order: c.Query("order")}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD"))
			return
		}
		q.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD"))
			return
		}
		q.To = t
	}

	history, err := h.service.History(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}
