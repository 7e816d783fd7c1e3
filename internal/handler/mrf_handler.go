package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deiondz/udal-gp/internal/service"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/response"
)

// MRFHandler handles Material Recovery Facility CRUD endpoints.
type MRFHandler struct {
	service *service.MRFService
}

// NewMRFHandler creates a new MRF handler.
func NewMRFHandler(svc *service.MRFService) *MRFHandler {
	return &MRFHandler{service: svc}
}

// List godoc
// @Summary List MRFs
// @Description List every Material Recovery Facility
// @Tags MRFs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mrfs [get]
func (h *MRFHandler) List(c *gin.Context) {
	mrfs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mrfs, nil)
}

// Get godoc
// @Summary Get MRF
// @Description Get one Material Recovery Facility by id
// @Tags MRFs
// @Produce json
// @Param id path string true "MRF ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mrfs/{id} [get]
func (h *MRFHandler) Get(c *gin.Context) {
	mrf, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if mrf == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "facility not found"))
		return
	}
	response.JSON(c, http.StatusOK, mrf, nil)
}

// Create godoc
// @Summary Register MRF
// @Description Register a Material Recovery Facility
// @Tags MRFs
// @Accept json
// @Produce json
// @Param payload body service.CreateMRFRequest true "Create MRF payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mrfs [post]
func (h *MRFHandler) Create(c *gin.Context) {
	var req service.CreateMRFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	mrf, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mrf)
}

// Update godoc
// @Summary Update MRF
// @Description Update facility attributes; omitted fields are untouched
// @Tags MRFs
// @Accept json
// @Produce json
// @Param id path string true "MRF ID"
// @Param payload body service.UpdateMRFRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mrfs/{id} [patch]
func (h *MRFHandler) Update(c *gin.Context) {
	var req service.UpdateMRFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	mrf, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if mrf == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "facility not found"))
		return
	}
	response.JSON(c, http.StatusOK, mrf, nil)
}

// Delete godoc
// @Summary Delete MRF
// @Description Delete a Material Recovery Facility
// @Tags MRFs
// @Produce json
// @Param id path string true "MRF ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /mrfs/{id} [delete]
func (h *MRFHandler) Delete(c *gin.Context) {
	found, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "facility not found"))
		return
	}
	response.NoContent(c)
}
