package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deiondz/udal-gp/internal/service"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/response"
)

// PanchayatHandler handles Gram Panchayat CRUD and MRF mapping endpoints.
type PanchayatHandler struct {
	service *service.PanchayatService
}

// NewPanchayatHandler creates a new panchayat handler.
func NewPanchayatHandler(svc *service.PanchayatService) *PanchayatHandler {
	return &PanchayatHandler{service: svc}
}

// List godoc
// @Summary List panchayats
// @Description List every registered Gram Panchayat
// @Tags Panchayats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /panchayats [get]
func (h *PanchayatHandler) List(c *gin.Context) {
	panchayats, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, panchayats, nil)
}

// Get godoc
// @Summary Get panchayat
// @Description Get one Gram Panchayat by id
// @Tags Panchayats
// @Produce json
// @Param id path string true "Panchayat ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /panchayats/{id} [get]
func (h *PanchayatHandler) Get(c *gin.Context) {
	gp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if gp == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "panchayat not found"))
		return
	}
	response.JSON(c, http.StatusOK, gp, nil)
}

// Create godoc
// @Summary Register panchayat
// @Description Register a Gram Panchayat together with its login account
// @Tags Panchayats
// @Accept json
// @Produce json
// @Param payload body service.CreatePanchayatRequest true "Create panchayat payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /panchayats [post]
func (h *PanchayatHandler) Create(c *gin.Context) {
	var req service.CreatePanchayatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	gp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gp)
}

// Update godoc
// @Summary Update panchayat
// @Description Update Gram Panchayat attributes; omitted fields are untouched
// @Tags Panchayats
// @Accept json
// @Produce json
// @Param id path string true "Panchayat ID"
// @Param payload body service.UpdatePanchayatRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /panchayats/{id} [patch]
func (h *PanchayatHandler) Update(c *gin.Context) {
	var req service.UpdatePanchayatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	gp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if gp == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "panchayat not found"))
		return
	}
	response.JSON(c, http.StatusOK, gp, nil)
}

// Delete godoc
// @Summary Delete panchayat
// @Description Delete a Gram Panchayat
// @Tags Panchayats
// @Produce json
// @Param id path string true "Panchayat ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /panchayats/{id} [delete]
func (h *PanchayatHandler) Delete(c *gin.Context) {
	found, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "panchayat not found"))
		return
	}
	response.NoContent(c)
}

// MapMRF godoc
// @Summary Map panchayat to an MRF
// @Description Link a Gram Panchayat to a Material Recovery Facility unit
// @Tags Panchayats
// @Accept json
// @Produce json
// @Param id path string true "Panchayat ID"
// @Param payload body service.MapMRFRequest true "MRF unit"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /panchayats/{id}/mrf [put]
func (h *PanchayatHandler) MapMRF(c *gin.Context) {
	var req service.MapMRFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	gp, err := h.service.MapMRF(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if gp == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "panchayat not found"))
		return
	}
	response.JSON(c, http.StatusOK, gp, nil)
}

// UnmapMRF godoc
// @Summary Unmap panchayat from its MRF
// @Description Clear the MRF link of a Gram Panchayat
// @Tags Panchayats
// @Produce json
// @Param id path string true "Panchayat ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /panchayats/{id}/mrf [delete]
func (h *PanchayatHandler) UnmapMRF(c *gin.Context) {
	gp, err := h.service.UnmapMRF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if gp == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "panchayat not found"))
		return
	}
	response.JSON(c, http.StatusOK, gp, nil)
}
